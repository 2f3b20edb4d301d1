// Package cleanup runs the background eviction of expired rate limit windows.
// A window is only removed once the limiter would reset it anyway, so
// eviction never changes an admission decision.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"hamon/internal/ratelimit/metrics"
	"hamon/internal/ratelimit/ports"
)

// CleanupResult contains the results of a cleanup run.
type CleanupResult struct {
	Evicted   int
	Remaining int // -1 when the store cannot report its size
	Duration  time.Duration
}

// Sizer is implemented by stores that can report how many windows they hold.
type Sizer interface {
	Len() int
}

type Option func(*WindowCleanupService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *WindowCleanupService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(s *WindowCleanupService) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *WindowCleanupService) {
		s.metrics = m
	}
}

// WithClock replaces time.Now for tests.
func WithClock(now func() time.Time) Option {
	return func(s *WindowCleanupService) {
		if now != nil {
			s.now = now
		}
	}
}

type WindowCleanupService struct {
	store    ports.Evictor
	window   time.Duration
	logger   *slog.Logger
	interval time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
}

// New creates a worker evicting windows older than window from store.
func New(store ports.Evictor, window time.Duration, opts ...Option) *WindowCleanupService {
	service := &WindowCleanupService{
		store:    store,
		window:   window,
		logger:   slog.Default(),
		interval: 10 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Start runs cleanup every interval until ctx is done.
func (s *WindowCleanupService) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			res, err := s.RunOnce(ctx)
			if err != nil {
				s.logger.Error("rate_limit_cleanup_failed", "error", err)
				if s.metrics != nil {
					s.metrics.IncrementCleanupRuns("error")
				}
				continue
			}

			s.logger.Info("rate_limit_cleanup_completed",
				"windows_evicted", res.Evicted,
				"windows_remaining", res.Remaining,
				"duration_ms", res.Duration.Milliseconds(),
			)
			if s.metrics != nil {
				s.metrics.IncrementCleanupRuns("success")
				s.metrics.IncrementCleanupEvicted(res.Evicted)
				s.metrics.ObserveCleanupDuration(res.Duration.Seconds())
				if res.Remaining >= 0 {
					s.metrics.SetTrackedWindows(res.Remaining)
				}
			}

		case <-ctx.Done():
			s.logger.Info("rate limit cleanup worker stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

// RunOnce evicts every window that started at or before now - window.
// Logging is handled by the caller (Start).
func (s *WindowCleanupService) RunOnce(ctx context.Context) (*CleanupResult, error) {
	start := s.now()
	evicted, err := s.store.EvictExpired(ctx, start.Add(-s.window))
	if err != nil {
		return nil, err
	}
	remaining := -1
	if sizer, ok := s.store.(Sizer); ok {
		remaining = sizer.Len()
	}
	return &CleanupResult{
		Evicted:   evicted,
		Remaining: remaining,
		Duration:  s.now().Sub(start),
	}, nil
}
