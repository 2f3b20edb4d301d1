package main

import (
	"log/slog"

	"hamon/internal/platform/database"
	"hamon/internal/platform/redis"
	ratelimitConfig "hamon/internal/ratelimit/config"
	ratelimitMetrics "hamon/internal/ratelimit/metrics"
	"hamon/internal/ratelimit/ports"
	"hamon/internal/ratelimit/service/requestlimit"
	"hamon/internal/ratelimit/store/window"
	"hamon/internal/ratelimit/workers/cleanup"
	"hamon/pkg/platform/circuit"
)

// buildLimiter picks the shared window store (Redis, then Postgres) and keeps
// an in-process store as the breaker-guarded fallback. Without a shared store
// the in-process one is primary. The returned evictors hold windows that do
// not expire on their own.
func buildLimiter(
	cfg ratelimitConfig.Config,
	pool *database.Pool,
	rdb *redis.Client,
	m *ratelimitMetrics.Metrics,
	log *slog.Logger,
) (*requestlimit.Service, []ports.Evictor, error) {
	local := window.NewInMemoryStore()
	opts := []requestlimit.Option{
		requestlimit.WithLimit(cfg.Intake),
		requestlimit.WithLogger(log),
		requestlimit.WithMetrics(m),
	}

	var primary ports.WindowStore
	evictors := []ports.Evictor{local}
	switch {
	case rdb != nil:
		primary = window.NewRedisStore(rdb.Client)
		log.Info("rate limit windows in redis")
	case pool != nil:
		pg := window.NewPostgresStore(pool.DB())
		primary = pg
		evictors = append(evictors, pg)
		log.Info("rate limit windows in postgres")
	default:
		log.Info("rate limit windows in process memory")
		svc, err := requestlimit.New(local, opts...)
		return svc, evictors, err
	}

	breaker := circuit.New("rate_limit_store",
		circuit.WithFailureThreshold(cfg.Fallback.FailureThreshold),
		circuit.WithSuccessThreshold(cfg.Fallback.SuccessThreshold),
		circuit.WithProbeInterval(cfg.Fallback.ProbeInterval),
	)
	opts = append(opts, requestlimit.WithFallback(local, breaker))
	svc, err := requestlimit.New(primary, opts...)
	return svc, evictors, err
}

func cleanupWorkers(
	cfg ratelimitConfig.Config,
	evictors []ports.Evictor,
	m *ratelimitMetrics.Metrics,
	log *slog.Logger,
) []*cleanup.WindowCleanupService {
	if cfg.CleanupInterval <= 0 {
		log.Info("rate limit cleanup disabled")
		return nil
	}
	workers := make([]*cleanup.WindowCleanupService, 0, len(evictors))
	for _, evictor := range evictors {
		workers = append(workers, cleanup.New(evictor, cfg.Intake.Window,
			cleanup.WithLogger(log),
			cleanup.WithInterval(cfg.CleanupInterval),
			cleanup.WithMetrics(m),
		))
	}
	return workers
}
