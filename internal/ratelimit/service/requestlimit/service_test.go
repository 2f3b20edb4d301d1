package requestlimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"hamon/internal/ratelimit/metrics"
	"hamon/internal/ratelimit/models"
	"hamon/internal/ratelimit/ports/mocks"
	"hamon/internal/ratelimit/store/window"
	dErrors "hamon/pkg/domain-errors"
	"hamon/pkg/platform/circuit"
	"hamon/pkg/platform/middleware/requesttime"
	concurrent "hamon/pkg/testutil"
)

// Covers key derivation, store error wrapping, and switching between the
// primary and fallback stores. The window arithmetic itself is tested in
// models and the stores.

type RequestLimitServiceSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	primary  *mocks.MockWindowStore
	fallback *window.InMemoryStore
	metrics  *metrics.Metrics
	now      time.Time
	ctx      context.Context
}

func TestRequestLimitServiceSuite(t *testing.T) {
	suite.Run(t, new(RequestLimitServiceSuite))
}

func (s *RequestLimitServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.primary = mocks.NewMockWindowStore(s.ctrl)
	s.fallback = window.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requesttime.WithTime(context.Background(), s.now)
}

func (s *RequestLimitServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil)
		s.Error(err)
		s.Contains(err.Error(), "window store is required")
	})

	s.Run("invalid limit returns error", func() {
		_, err := New(s.fallback, WithLimit(models.Limit{MaxRequests: 0, Window: time.Hour}))
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("defaults to five per hour", func() {
		svc, err := New(s.fallback)
		s.Require().NoError(err)
		s.Equal(models.Limit{MaxRequests: 5, Window: time.Hour}, svc.Limit())
	})
}

func (s *RequestLimitServiceSuite) TestCheck() {
	s.Run("prefixes the client key and uses request time", func() {
		decision := &models.Decision{Allowed: true, Limit: 5, Remaining: 4}
		s.primary.EXPECT().
			Allow(gomock.Any(), "ip:203.0.113.9", models.DefaultIntakeLimit, s.now).
			Return(decision, nil)

		svc, err := New(s.primary, WithMetrics(s.metrics))
		s.Require().NoError(err)

		got, err := svc.Check(s.ctx, "203.0.113.9")
		s.Require().NoError(err)
		s.Same(decision, got)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RateLimitDecisionsTotal.WithLabelValues("allowed", storePrimary)))
	})

	s.Run("store error is wrapped as internal", func() {
		s.primary.EXPECT().Allow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused"))

		svc, err := New(s.primary)
		s.Require().NoError(err)

		_, err = svc.Check(s.ctx, "203.0.113.9")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("sixth request in the hour is denied", func() {
		svc, err := New(window.NewInMemoryStore())
		s.Require().NoError(err)

		for range 5 {
			decision, err := svc.Check(s.ctx, "198.51.100.1")
			s.Require().NoError(err)
			s.True(decision.Allowed)
		}
		decision, err := svc.Check(s.ctx, "198.51.100.1")
		s.Require().NoError(err)
		s.False(decision.Allowed)
		s.Equal(3600, decision.RetryAfter)
	})
}

func (s *RequestLimitServiceSuite) TestFallback() {
	breakerFor := func() *circuit.Breaker {
		return circuit.New("test",
			circuit.WithFailureThreshold(2),
			circuit.WithSuccessThreshold(1),
			circuit.WithProbeInterval(time.Minute),
		)
	}

	s.Run("primary failure is answered from fallback as degraded", func() {
		s.primary.EXPECT().Allow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("timeout"))

		svc, err := New(s.primary, WithFallback(s.fallback, breakerFor()), WithMetrics(s.metrics))
		s.Require().NoError(err)

		decision, err := svc.Check(s.ctx, "203.0.113.9")
		s.Require().NoError(err)
		s.True(decision.Allowed)
		s.True(decision.Degraded)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RateLimitStoreErrorsTotal.WithLabelValues(storePrimary)))
	})

	s.Run("open breaker skips primary until the probe interval", func() {
		breaker := breakerFor()
		s.primary.EXPECT().Allow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("timeout")).Times(3)

		svc, err := New(s.primary, WithFallback(window.NewInMemoryStore(), breaker), WithMetrics(s.metrics))
		s.Require().NoError(err)

		for range 2 {
			_, err := svc.Check(s.ctx, "203.0.113.9")
			s.Require().NoError(err)
		}
		s.True(breaker.IsOpen())
		s.True(svc.Degraded())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RateLimitFallbackActive))

		// The first call after opening probes; the next waits for the interval.
		_, err = svc.Check(s.ctx, "203.0.113.9")
		s.Require().NoError(err)
		decision, err := svc.Check(s.ctx, "203.0.113.9")
		s.Require().NoError(err)
		s.True(decision.Degraded)
	})

	s.Run("successful probe closes the breaker", func() {
		breaker := breakerFor()
		gomock.InOrder(
			s.primary.EXPECT().Allow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, errors.New("timeout")).Times(2),
			s.primary.EXPECT().Allow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(&models.Decision{Allowed: true, Limit: 5, Remaining: 2}, nil),
		)

		svc, err := New(s.primary, WithFallback(window.NewInMemoryStore(), breaker))
		s.Require().NoError(err)
		for range 2 {
			_, err := svc.Check(s.ctx, "203.0.113.9")
			s.Require().NoError(err)
		}

		later := requesttime.WithTime(context.Background(), s.now.Add(2*time.Minute))
		decision, err := svc.Check(later, "203.0.113.9")
		s.Require().NoError(err)
		s.False(decision.Degraded)
		s.False(breaker.IsOpen())
	})
}

func (s *RequestLimitServiceSuite) TestReset() {
	svc, err := New(window.NewInMemoryStore(), WithLimit(models.Limit{MaxRequests: 1, Window: time.Hour}))
	s.Require().NoError(err)

	_, err = svc.Check(s.ctx, "203.0.113.9")
	s.Require().NoError(err)
	denied, err := svc.Check(s.ctx, "203.0.113.9")
	s.Require().NoError(err)
	s.False(denied.Allowed)

	s.Require().NoError(svc.Reset(s.ctx, "203.0.113.9"))
	allowed, err := svc.Check(s.ctx, "203.0.113.9")
	s.Require().NoError(err)
	s.True(allowed.Allowed)
}

func (s *RequestLimitServiceSuite) TestConcurrentChecksNeverOverAdmit() {
	svc, err := New(window.NewInMemoryStore())
	s.Require().NoError(err)

	result := concurrent.RunConcurrent(20, func(int) error {
		decision, err := svc.Check(s.ctx, "192.0.2.44")
		if err != nil {
			return err
		}
		if !decision.Allowed {
			return dErrors.New(dErrors.CodeRateLimited, "denied")
		}
		return nil
	})

	s.Equal(int32(5), result.Successes)
	s.Equal(int32(15), result.Denied)
	s.Zero(result.Errors)
}
