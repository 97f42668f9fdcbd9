package http

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	"loan-projection/metrics"
)

// RateLimitMiddleware rejects clients over their limit with 429. Limiter
// failures let the request through.
func RateLimitMiddleware(
	limiter Limiter,
	m *metrics.Metrics,
	log *zap.Logger,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		allowed, err := limiter.Allow(r.Context(), ip)
		if err != nil {
			log.Warn("rate limiter unavailable", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			m.RateLimited.Inc()
			log.Debug("rate limit exceeded", zap.String("client", ip))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
