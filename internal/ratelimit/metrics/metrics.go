package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RateLimitDecisionsTotal         *prometheus.CounterVec
	RateLimitStoreErrorsTotal       *prometheus.CounterVec
	RateLimitFallbackActive         prometheus.Gauge
	RateLimitTrackedWindows         prometheus.Gauge
	RateLimitCleanupRunsTotal       *prometheus.CounterVec
	RateLimitCleanupDurationSeconds prometheus.Histogram
	RateLimitCleanupEvictedTotal    prometheus.Counter
	GlobalThrottleRejectedTotal     prometheus.Counter
}

// New registers the rate limit collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RateLimitDecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hamon_ratelimit_decisions_total",
			Help: "Rate limit decisions by outcome and serving store",
		}, []string{"outcome", "store"}),
		RateLimitStoreErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hamon_ratelimit_store_errors_total",
			Help: "Errors returned by rate limit stores",
		}, []string{"store"}),
		RateLimitFallbackActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hamon_ratelimit_fallback_active",
			Help: "1 while decisions are served by the local fallback store",
		}),
		RateLimitTrackedWindows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hamon_ratelimit_tracked_windows",
			Help: "Windows held by the in-memory store after the last cleanup",
		}),
		RateLimitCleanupRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hamon_ratelimit_cleanup_runs_total",
			Help: "Total number of cleanup runs",
		}, []string{"status"}),
		RateLimitCleanupDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name: "hamon_ratelimit_cleanup_duration_seconds",
			Help: "Duration of cleanup runs in seconds",
		}),
		RateLimitCleanupEvictedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "hamon_ratelimit_cleanup_evicted_total",
			Help: "Expired windows removed by the cleanup worker",
		}),
		GlobalThrottleRejectedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "hamon_ratelimit_global_throttle_rejected_total",
			Help: "Requests rejected by the per-instance throttle",
		}),
	}
}

func (m *Metrics) ObserveDecision(allowed bool, store string) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	m.RateLimitDecisionsTotal.WithLabelValues(outcome, store).Inc()
}

func (m *Metrics) IncrementStoreErrors(store string) {
	m.RateLimitStoreErrorsTotal.WithLabelValues(store).Inc()
}

func (m *Metrics) SetFallbackActive(active bool) {
	if active {
		m.RateLimitFallbackActive.Set(1)
		return
	}
	m.RateLimitFallbackActive.Set(0)
}

func (m *Metrics) SetTrackedWindows(count int) {
	m.RateLimitTrackedWindows.Set(float64(count))
}

func (m *Metrics) IncrementCleanupRuns(status string) {
	m.RateLimitCleanupRunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveCleanupDuration(durationSeconds float64) {
	m.RateLimitCleanupDurationSeconds.Observe(durationSeconds)
}

func (m *Metrics) IncrementCleanupEvicted(count int) {
	m.RateLimitCleanupEvictedTotal.Add(float64(count))
}

func (m *Metrics) IncrementGlobalThrottleRejected() {
	m.GlobalThrottleRejectedTotal.Inc()
}
