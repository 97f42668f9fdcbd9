package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"loan-projection/metrics"
)

// NewRouter wires the projection endpoints, health and metrics.
func NewRouter(
	handler *ProjectionHandler,
	limiter Limiter,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	log *zap.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(
		"/projection/run",
		RateLimitMiddleware(
			limiter, m, log,
			http.HandlerFunc(handler.RunProjection),
		),
	)
	mux.HandleFunc("GET /projection/runs/{id}", handler.GetRun)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
