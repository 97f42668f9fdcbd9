package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-projection/domain"
)

func TestProjectionRepositoryMemory_SaveGet(t *testing.T) {
	repo := NewProjectionRepositoryMemory(0)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.ProjectionRun{ID: "a", DealID: "D1"}))
	run, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "D1", run.DealID)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestProjectionRepositoryMemory_EvictsOldest(t *testing.T) {
	repo := NewProjectionRepositoryMemory(2)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "a", "c"} {
		require.NoError(t, repo.Save(ctx, domain.ProjectionRun{ID: id}))
	}

	_, err := repo.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrRunNotFound)
	for _, id := range []string{"b", "c"} {
		_, err := repo.Get(ctx, id)
		assert.NoError(t, err, id)
	}
}
