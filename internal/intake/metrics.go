package intake

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const outcomeSuccess = "success"

type Metrics struct {
	RequestsTotal        *prometheus.CounterVec
	DurationSeconds      *prometheus.HistogramVec
	LimiterFailOpenTotal *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hamon_intake_requests_total",
			Help: "Intake requests by endpoint and outcome kind",
		}, []string{"endpoint", "outcome"}),
		DurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hamon_intake_duration_seconds",
			Help:    "Time spent in the intake pipeline",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		LimiterFailOpenTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hamon_intake_limiter_fail_open_total",
			Help: "Requests admitted because the rate limiter could not answer",
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) observe(endpoint string, out Outcome, elapsed time.Duration) {
	outcome := outcomeSuccess
	if out.Err != nil {
		outcome = string(out.Classification.Kind)
	}
	m.RequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.DurationSeconds.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
