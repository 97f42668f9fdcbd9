// Package metrics holds the Prometheus collectors of the projection service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "loan_projection"

type Metrics struct {
	// Runs by outcome: ok, cached, invalid, failed.
	RunsTotal *prometheus.CounterVec
	// Engine wall time per run.
	RunDuration prometheus.Histogram
	// Loan-period rows emitted by the engine.
	LoanPeriodRows prometheus.Counter
	// Cache lookups by result: hit, miss.
	CacheLookups *prometheus.CounterVec
	// Requests rejected by the rate limiter.
	RateLimited prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Projection runs by outcome",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Projection engine duration",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		LoanPeriodRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loan_period_rows_total",
			Help:      "Loan-period rows produced",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result",
		}, []string{"result"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}),
	}
	reg.MustRegister(m.RunsTotal, m.RunDuration, m.LoanPeriodRows, m.CacheLookups, m.RateLimited)
	return m
}
