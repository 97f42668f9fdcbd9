package repository

import (
	"context"
	"sync"

	"loan-projection/domain"
)

// ProjectionRepositoryMemory is an in-memory implementation of ProjectionRepository.
// It keeps at most limit runs, evicting the oldest first.
type ProjectionRepositoryMemory struct {
	mu    sync.RWMutex
	limit int
	order []string
	data  map[string]domain.ProjectionRun
}

// NewProjectionRepositoryMemory creates a new in-memory projection repository.
// A limit below 1 keeps every run.
func NewProjectionRepositoryMemory(limit int) *ProjectionRepositoryMemory {
	return &ProjectionRepositoryMemory{
		limit: limit,
		data:  make(map[string]domain.ProjectionRun),
	}
}

// Save stores the run in memory.
func (r *ProjectionRepositoryMemory) Save(_ context.Context, run domain.ProjectionRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[run.ID]; !exists {
		r.order = append(r.order, run.ID)
	}
	r.data[run.ID] = run

	for r.limit > 0 && len(r.order) > r.limit {
		delete(r.data, r.order[0])
		r.order = r.order[1:]
	}
	return nil
}

func (r *ProjectionRepositoryMemory) Get(_ context.Context, id string) (domain.ProjectionRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.data[id]
	if !ok {
		return domain.ProjectionRun{}, ErrRunNotFound
	}
	return run, nil
}
