package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"hamon/internal/ratelimit/config"
	"hamon/internal/ratelimit/metrics"
	"hamon/internal/ratelimit/models"
	dErrors "hamon/pkg/domain-errors"
	"hamon/pkg/platform/httputil"
)

const (
	HeaderLimit      = "X-RateLimit-Limit"
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderReset      = "X-RateLimit-Reset"
	HeaderStatus     = "X-RateLimit-Status"
	HeaderRetryAfter = "Retry-After"

	StatusDegraded = "degraded"

	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// WriteHeaders adds the X-RateLimit-* headers for a decision, plus
// Retry-After when it was denied.
func WriteHeaders(w http.ResponseWriter, decision *models.Decision) {
	if decision == nil {
		return
	}
	h := w.Header()
	h.Set(HeaderLimit, strconv.Itoa(decision.Limit))
	h.Set(HeaderRemaining, strconv.Itoa(decision.Remaining))
	h.Set(HeaderReset, strconv.FormatInt(decision.ResetAt.Unix(), 10))
	if decision.Degraded {
		h.Set(HeaderStatus, StatusDegraded)
	}
	if !decision.Allowed {
		h.Set(HeaderRetryAfter, strconv.Itoa(decision.RetryAfter))
	}
}

// GlobalThrottle sheds load for the whole instance with a token bucket. It
// runs before any per-client accounting, so throttled requests never consume
// a client's budget.
type GlobalThrottle struct {
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// ThrottleOption configures a GlobalThrottle.
type ThrottleOption func(*GlobalThrottle)

func WithThrottleLogger(logger *slog.Logger) ThrottleOption {
	return func(t *GlobalThrottle) {
		t.logger = logger
	}
}

func WithThrottleMetrics(m *metrics.Metrics) ThrottleOption {
	return func(t *GlobalThrottle) {
		t.metrics = m
	}
}

// NewGlobalThrottle returns nil when cfg.PerSecond is not positive; a nil
// throttle passes every request through.
func NewGlobalThrottle(cfg config.GlobalLimit, opts ...ThrottleOption) *GlobalThrottle {
	if cfg.PerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	t := &GlobalThrottle{limiter: rate.NewLimiter(rate.Limit(cfg.PerSecond), burst)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *GlobalThrottle) Handler(next http.Handler) http.Handler {
	if t == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.limiter.Allow() {
			next.ServeHTTP(w, r)
			return
		}
		if t.metrics != nil {
			t.metrics.IncrementGlobalThrottleRejected()
		}
		if t.logger != nil {
			t.logger.WarnContext(r.Context(), "global throttle rejected request",
				"path", r.URL.Path,
				"method", r.Method,
			)
		}
		w.Header().Set(HeaderRetryAfter, "1")
		httputil.WriteError(w, dErrors.NewFailure(http.StatusServiceUnavailable, CodeServiceUnavailable,
			"Service is temporarily overloaded. Please try again later."))
	})
}
