// Package requestlimit enforces the per-client fixed-window budget on intake
// endpoints.
//
// Usage:
//
//	svc, _ := requestlimit.New(store, requestlimit.WithLimit(cfg.Intake))
//	decision, _ := svc.Check(ctx, metadata.ClientKey(ctx))
//	if !decision.Allowed {
//	    // Return 429 Too Many Requests
//	}
//
// With WithFallback, a shared primary store (Redis or Postgres) is guarded by
// a circuit breaker. Failed primary calls are answered from the local
// fallback store and the decision is marked Degraded.
package requestlimit

import (
	"context"
	"errors"
	"log/slog"

	"hamon/internal/ratelimit/metrics"
	"hamon/internal/ratelimit/models"
	"hamon/internal/ratelimit/ports"
	dErrors "hamon/pkg/domain-errors"
	"hamon/pkg/platform/circuit"
	"hamon/pkg/platform/middleware/requesttime"
	"hamon/pkg/platform/privacy"
)

const (
	storePrimary  = "primary"
	storeFallback = "fallback"
)

// Service answers admission checks. Safe for concurrent use.
type Service struct {
	primary  ports.WindowStore
	fallback ports.WindowStore
	breaker  *circuit.Breaker
	limit    models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Service instance.
type Option func(*Service)

// WithLimit overrides the default budget of 5 requests per hour.
func WithLimit(limit models.Limit) Option {
	return func(s *Service) {
		s.limit = limit
	}
}

// WithLogger sets the structured logger for breaker transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithFallback answers checks from store whenever the primary fails or the
// breaker is open.
func WithFallback(store ports.WindowStore, breaker *circuit.Breaker) Option {
	return func(s *Service) {
		s.fallback = store
		s.breaker = breaker
	}
}

// New creates a limiter over the primary store.
func New(primary ports.WindowStore, opts ...Option) (*Service, error) {
	if primary == nil {
		return nil, errors.New("window store is required")
	}
	svc := &Service{
		primary: primary,
		limit:   models.DefaultIntakeLimit,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if err := svc.limit.Validate(); err != nil {
		return nil, err
	}
	if svc.fallback != nil && svc.breaker == nil {
		svc.breaker = circuit.New("ratelimit")
	}
	return svc, nil
}

// Limit returns the configured budget.
func (s *Service) Limit() models.Limit {
	return s.limit
}

// Degraded reports whether checks are currently answered by the fallback
// store because the breaker around the primary is open.
func (s *Service) Degraded() bool {
	return s.breaker != nil && s.breaker.IsOpen()
}

// Check consumes one unit of clientKey's budget if any remains. A denied
// decision leaves the window untouched. The error is non-nil only when no
// store could answer.
func (s *Service) Check(ctx context.Context, clientKey string) (*models.Decision, error) {
	key := models.NewClientKey(clientKey)
	now := requesttime.Now(ctx)

	if s.fallback == nil {
		decision, err := s.primary.Allow(ctx, key, s.limit, now)
		if err != nil {
			s.recordStoreError(storePrimary)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
		}
		s.recordDecision(decision, storePrimary)
		return decision, nil
	}

	if s.breaker.AllowPrimary(now) {
		decision, err := s.primary.Allow(ctx, key, s.limit, now)
		if err == nil {
			if _, change := s.breaker.RecordSuccess(); change.Closed {
				s.logTransition(ctx, "rate_limit_primary_recovered", clientKey)
				s.setFallbackActive(false)
			}
			s.recordDecision(decision, storePrimary)
			return decision, nil
		}
		s.recordStoreError(storePrimary)
		if _, change := s.breaker.RecordFailure(); change.Opened {
			s.logTransition(ctx, "rate_limit_primary_unavailable", clientKey, "error", err)
			s.setFallbackActive(true)
		}
	}

	decision, err := s.fallback.Allow(ctx, key, s.limit, now)
	if err != nil {
		s.recordStoreError(storeFallback)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}
	decision.Degraded = true
	s.recordDecision(decision, storeFallback)
	return decision, nil
}

// Reset forgets clientKey's window in every configured store.
func (s *Service) Reset(ctx context.Context, clientKey string) error {
	key := models.NewClientKey(clientKey)
	if err := s.primary.Reset(ctx, key); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset rate limit")
	}
	if s.fallback != nil {
		if err := s.fallback.Reset(ctx, key); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset fallback rate limit")
		}
	}
	return nil
}

func (s *Service) recordDecision(decision *models.Decision, store string) {
	if s.metrics != nil {
		s.metrics.ObserveDecision(decision.Allowed, store)
	}
}

func (s *Service) recordStoreError(store string) {
	if s.metrics != nil {
		s.metrics.IncrementStoreErrors(store)
	}
}

func (s *Service) setFallbackActive(active bool) {
	if s.metrics != nil {
		s.metrics.SetFallbackActive(active)
	}
}

func (s *Service) logTransition(ctx context.Context, event, clientKey string, attrs ...any) {
	if s.logger == nil {
		return
	}
	args := append([]any{
		"event", event,
		"breaker", s.breaker.Name(),
		"client", privacy.AnonymizeIP(clientKey),
	}, attrs...)
	s.logger.WarnContext(ctx, event, args...)
}
