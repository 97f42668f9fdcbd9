package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"loan-projection/domain"
	"loan-projection/metrics"
	"loan-projection/repository"
)

type MockProjectionRepository struct {
	SaveCalled int
	ForceError bool
	runs       map[string]domain.ProjectionRun
}

func (m *MockProjectionRepository) Save(_ context.Context, run domain.ProjectionRun) error {
	m.SaveCalled++
	if m.ForceError {
		return errors.New("save error")
	}
	if m.runs == nil {
		m.runs = make(map[string]domain.ProjectionRun)
	}
	m.runs[run.ID] = run
	return nil
}

func (m *MockProjectionRepository) Get(_ context.Context, id string) (domain.ProjectionRun, error) {
	run, ok := m.runs[id]
	if !ok {
		return domain.ProjectionRun{}, repository.ErrRunNotFound
	}
	return run, nil
}

func newTestService(t *testing.T, repo repository.ProjectionRepository) (*ProjectionService, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	return NewProjectionService(newTestEngine(t, domain.AmortizationFixed, 2), repo, repository.NewMemoryCache(10, time.Hour), m, zap.NewNop()), m
}

func sampleInput() domain.ProjectionInput {
	return domain.ProjectionInput{
		DealTerms: dealTable("2024-03-31", 6, 1),
		LoanTape: tapeTable(
			[]any{"DEAL9", "A", 100000.0, 0.06, "N", 360, 25},
			[]any{"DEAL9", "B", 50000.0, 0.05, "Y", 120, 25},
		),
		Scenarios: scenarioTable(
			[]any{"stress", 0.02, 0.15, 0.6},
			[]any{"base", 0.10, 0.01, 0.3},
		),
	}
}

func TestProjectionService_Run(t *testing.T) {
	repo := &MockProjectionRepository{}
	svc, m := newTestService(t, repo)

	run, err := svc.Run(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "DEAL9", run.DealID)
	assert.Equal(t, 2, run.Scenarios)
	assert.Equal(t, 2, run.Loans)
	assert.Equal(t, 6, run.Periods)
	assert.Len(t, run.Result.LoanPeriods, 2*2*6)
	assert.Len(t, run.Result.PoolPeriods, 2*6)
	assert.Equal(t, "base", run.Result.PoolPeriods[0].Scenario)
	assert.Equal(t, "2024-04-30", run.Result.PoolPeriods[0].PeriodEndDate)

	assert.Equal(t, 1, repo.SaveCalled)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("ok")))
	assert.Equal(t, 24.0, testutil.ToFloat64(m.LoanPeriodRows))

	stored, err := svc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, stored.ID)
}

func TestProjectionService_CachedRunIsReused(t *testing.T) {
	repo := &MockProjectionRepository{}
	svc, m := newTestService(t, repo)

	first, err := svc.Run(context.Background(), sampleInput())
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("cached")))
}

func TestProjectionService_InvalidInputSkipsProjection(t *testing.T) {
	repo := &MockProjectionRepository{}
	svc, m := newTestService(t, repo)

	input := sampleInput()
	input.LoanTape.Columns = []string{"DealID", "LoanID"}

	_, err := svc.Run(context.Background(), input)
	require.Error(t, err)
	assert.True(t, IsInputError(err))
	assert.Contains(t, err.Error(), "OriginalBalance_AtCutoff")
	assert.Zero(t, repo.SaveCalled)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("invalid")))
}

func TestProjectionService_HorizonLimit(t *testing.T) {
	svc, _ := newTestService(t, &MockProjectionRepository{})
	input := sampleInput()
	input.DealTerms = dealTable("2024-03-31", MaxHorizonMonths+1, 0)

	_, err := svc.Run(context.Background(), input)
	assert.True(t, IsInputError(err))
}

func TestProjectionService_SaveFailureIsNotFatal(t *testing.T) {
	repo := &MockProjectionRepository{ForceError: true}
	svc, _ := newTestService(t, repo)

	run, err := svc.Run(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 1, repo.SaveCalled)
}

func TestProjectionService_GetRunUnknown(t *testing.T) {
	svc, _ := newTestService(t, &MockProjectionRepository{})

	_, err := svc.GetRun(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrRunNotFound)

	_, err = svc.GetRun(context.Background(), "5b1c3b58-8f7e-4e0e-9d55-3f5e0f1c2a10")
	assert.ErrorIs(t, err, repository.ErrRunNotFound)
}
