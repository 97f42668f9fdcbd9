package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"loan-projection/config"
	"loan-projection/domain"
	httpLayer "loan-projection/http"
	"loan-projection/logger"
	"loan-projection/metrics"
	"loan-projection/repository"
	"loan-projection/service"
)

const redisPingTimeout = 2 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("server exited")
}

func run(cfg config.Config, log *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	engine, err := service.NewEngine(domain.AmortizationMode(cfg.Engine.AmortizationMode), cfg.Engine.Workers)
	if err != nil {
		return err
	}

	projectionRepo := repository.NewProjectionRepositoryMemory(cfg.Store.MaxRuns)

	var (
		cache   repository.CacheRepository = repository.NewMemoryCache(cfg.Store.MaxCacheEntries, cfg.Store.CacheTTL)
		limiter httpLayer.Limiter
	)
	if redisCache := connectRedis(cfg.Redis, log); redisCache != nil {
		defer func() { _ = redisCache.Close() }()
		cache = redisCache
		limiter = httpLayer.NewRedisRateLimiter(redisCache.Client(), cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	} else {
		localLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
		defer localLimiter.Stop()
		limiter = localLimiter
	}

	projectionService := service.NewProjectionService(engine, projectionRepo, cache, m, log)
	projectionHandler := httpLayer.NewProjectionHandler(projectionService, log, cfg.Server.MaxBodyBytes)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpLayer.NewRouter(projectionHandler, limiter, m, reg, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("projection API listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("amortization_mode", string(engine.Mode())),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("starting server: %w", err)
	case <-quit:
		log.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(ctx)
}

// connectRedis returns nil when Redis is disabled or unreachable; callers
// then fall back to process-local cache and rate limiting.
func connectRedis(cfg config.RedisConfig, log *zap.Logger) *repository.RedisCache {
	if !cfg.Enabled {
		return nil
	}

	redisCache := repository.NewRedisCache(repository.RedisOptions{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		TTL:      cfg.TTL,
	})
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn("redis unavailable, using in-memory cache", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = redisCache.Close()
		return nil
	}
	log.Info("using redis for result cache and rate limiting", zap.String("addr", cfg.Addr))
	return redisCache
}
