package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SubmissionsTotal *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		SubmissionsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hamon_contact_submissions_total",
			Help: "Accepted contact form submissions by interest",
		}, []string{"interest"}),
	}
}

func (m *Metrics) IncrementSubmissions(interest string) {
	m.SubmissionsTotal.WithLabelValues(interest).Inc()
}
