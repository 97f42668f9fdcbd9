package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"loan-projection/domain"
	"loan-projection/metrics"
	"loan-projection/repository"
)

type ProjectionService struct {
	engine  *Engine
	repo    repository.ProjectionRepository
	cache   repository.CacheRepository
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

// NewProjectionService creates a new ProjectionService.
func NewProjectionService(
	engine *Engine,
	repo repository.ProjectionRepository,
	cache repository.CacheRepository,
	m *metrics.Metrics,
	log *zap.Logger,
) *ProjectionService {
	return &ProjectionService{
		engine:  engine,
		repo:    repo,
		cache:   cache,
		metrics: m,
		log:     log,
		now:     time.Now,
	}
}

// Run validates the input tables, projects every scenario and stores the run.
// Identical inputs are answered from the cache with the original run.
func (s *ProjectionService) Run(
	ctx context.Context,
	input domain.ProjectionInput,
) (domain.ProjectionRun, error) {

	prepared, err := ParseInput(input)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("invalid").Inc()
		s.log.Warn("projection input rejected", zap.Error(err))
		return domain.ProjectionRun{}, err
	}

	key, err := s.cacheKey(input)
	if err != nil {
		return domain.ProjectionRun{}, err
	}
	if run, ok := s.cached(ctx, key); ok {
		s.metrics.RunsTotal.WithLabelValues("cached").Inc()
		if err := s.repo.Save(ctx, run); err != nil {
			s.log.Warn("failed to save cached projection run", zap.String("run_id", run.ID), zap.Error(err))
		}
		s.log.Info("projection served from cache", zap.String("run_id", run.ID))
		return run, nil
	}

	start := s.now()
	result, err := s.engine.Run(ctx, prepared.Terms, prepared.Loans, prepared.Scenarios)
	elapsed := s.now().Sub(start)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("failed").Inc()
		s.log.Error("projection failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return domain.ProjectionRun{}, err
	}
	s.metrics.RunDuration.Observe(elapsed.Seconds())
	s.metrics.LoanPeriodRows.Add(float64(len(result.LoanPeriods)))
	s.metrics.RunsTotal.WithLabelValues("ok").Inc()

	run := domain.ProjectionRun{
		ID:        uuid.NewString(),
		Scenarios: len(prepared.Scenarios),
		Loans:     len(prepared.Loans),
		Periods:   prepared.Terms.HorizonMonths,
		CreatedAt: start.UTC(),
		Result:    result,
	}
	if len(prepared.Loans) > 0 {
		run.DealID = prepared.Loans[0].DealID
	}

	s.log.Info("projection completed",
		zap.String("run_id", run.ID),
		zap.String("deal_id", run.DealID),
		zap.Int("scenarios", run.Scenarios),
		zap.Int("loans", run.Loans),
		zap.Int("periods", run.Periods),
		zap.Duration("elapsed", elapsed),
	)

	// Guardar el resultado (no crítico si falla)
	if err := s.repo.Save(ctx, run); err != nil {
		s.log.Warn("failed to save projection run", zap.String("run_id", run.ID), zap.Error(err))
	}
	s.store(ctx, key, run)

	return run, nil
}

// GetRun returns a previously stored run.
func (s *ProjectionService) GetRun(ctx context.Context, id string) (domain.ProjectionRun, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ProjectionRun{}, repository.ErrRunNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *ProjectionService) cacheKey(input domain.ProjectionInput) (string, error) {
	payload, err := json.Marshal(struct {
		Mode  domain.AmortizationMode `json:"mode"`
		Input domain.ProjectionInput  `json:"input"`
	}{s.engine.Mode(), input})
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func (s *ProjectionService) cached(ctx context.Context, key string) (domain.ProjectionRun, bool) {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return domain.ProjectionRun{}, false
	}
	var run domain.ProjectionRun
	if err := json.Unmarshal([]byte(raw), &run); err != nil {
		s.log.Warn("discarding unreadable cache entry", zap.Error(err))
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return domain.ProjectionRun{}, false
	}
	s.metrics.CacheLookups.WithLabelValues("hit").Inc()
	return run, true
}

func (s *ProjectionService) store(ctx context.Context, key string, run domain.ProjectionRun) {
	raw, err := json.Marshal(run)
	if err != nil {
		s.log.Warn("failed to encode projection run for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(raw)); err != nil {
		s.log.Warn("failed to cache projection run", zap.String("run_id", run.ID), zap.Error(err))
	}
}

// IsInputError reports whether err is a validation failure of the input tables.
func IsInputError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput)
}
