package repository

import (
	"context"
	"errors"

	"loan-projection/domain"
)

var ErrRunNotFound = errors.New("projection run not found")

type ProjectionRepository interface {
	Save(ctx context.Context, run domain.ProjectionRun) error
	Get(ctx context.Context, id string) (domain.ProjectionRun, error)
}
