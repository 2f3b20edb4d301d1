package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	catalogHandler "hamon/internal/catalog/handler"
	catalogService "hamon/internal/catalog/service"
	contactHandler "hamon/internal/contact/handler"
	contactMetrics "hamon/internal/contact/metrics"
	contactService "hamon/internal/contact/service"
	inquiryHandler "hamon/internal/inquiry/handler"
	inquiryService "hamon/internal/inquiry/service"
	"hamon/internal/intake"
	"hamon/internal/platform/config"
	"hamon/internal/platform/database"
	"hamon/internal/platform/health"
	"hamon/internal/platform/logger"
	"hamon/internal/platform/redis"
	ratelimitMetrics "hamon/internal/ratelimit/metrics"
	ratelimitMiddleware "hamon/internal/ratelimit/middleware"
	"hamon/internal/seeder"
	httptransport "hamon/internal/transport/http"
	"hamon/migrations"
	"hamon/pkg/platform/middleware/request"
)

const (
	shutdownTimeout = 10 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	log := logger.New(cfg.Server.LogLevel)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	log.Info("initializing hamon",
		"addr", cfg.Server.Addr,
		"environment", cfg.Server.Environment,
		"intake_limit", cfg.RateLimit.Intake.MaxRequests,
		"intake_window", cfg.RateLimit.Intake.Window.String(),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checks := health.New(cfg.Server.Environment)

	pool, err := database.New(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if pool != nil {
		defer pool.Close() //nolint:errcheck // process exit
		if err := database.Migrate(ctx, pool.DB(), migrations.FS, log); err != nil {
			return err
		}
		if err := pool.RegisterMetrics(reg); err != nil {
			return fmt.Errorf("register database metrics: %w", err)
		}
		checks.RegisterCheck("database", pool.Health)
		log.Info("using postgres stores")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		defer rdb.Close() //nolint:errcheck // process exit
		if err := rdb.RegisterMetrics(reg); err != nil {
			return fmt.Errorf("register redis metrics: %w", err)
		}
		checks.RegisterCheck("redis", rdb.Health)
	}

	rlMetrics := ratelimitMetrics.New(reg)
	limiter, evictors, err := buildLimiter(cfg.RateLimit, pool, rdb, rlMetrics, log)
	if err != nil {
		return err
	}
	checks.RegisterCheck("rate_limit_store", func(context.Context) error {
		if limiter.Degraded() {
			return health.Degraded("primary window store unavailable, using in-process fallback")
		}
		return nil
	})

	stores := buildStores(pool)
	reporter := logger.NewReporter(log)
	pipeline := intake.New(limiter, reporter, intake.WithMetrics(intake.NewMetrics(reg)))

	swords, err := catalogService.New(stores.swords, catalogService.WithLogger(log))
	if err != nil {
		return err
	}
	inquiries, err := inquiryService.New(stores.inquiries, swords, inquiryService.WithLogger(log))
	if err != nil {
		return err
	}
	contact, err := contactService.New(stores.submissions, reporter,
		contactService.WithMetrics(contactMetrics.New(reg)))
	if err != nil {
		return err
	}

	if cfg.Server.SeedDemoData {
		if err := seeder.New(swords, stores.swords, log).SeedAll(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger:   log,
		Gatherer: reg,
		Latency:  request.NewMetrics(reg),
		Throttle: ratelimitMiddleware.NewGlobalThrottle(cfg.RateLimit.Global,
			ratelimitMiddleware.WithThrottleLogger(log),
			ratelimitMiddleware.WithThrottleMetrics(rlMetrics)),
		TrustedProxies: cfg.Server.TrustedProxies,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		RequestTimeout: cfg.Server.RequestTimeout,
	},
		checks,
		catalogHandler.New(swords, pipeline),
		inquiryHandler.New(inquiries, pipeline),
		contactHandler.New(contact, pipeline),
	)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	for _, worker := range cleanupWorkers(cfg.RateLimit, evictors, rlMetrics, log) {
		g.Go(func() error { return ignoreCanceled(worker.Start(gctx)) })
	}

	return g.Wait()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
