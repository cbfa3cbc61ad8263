package quoteapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records quote API call latency and failures.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	Failures        *prometheus.CounterVec
}

// NewMetrics registers quote API metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quoteflow_quoteapi_request_duration_seconds",
			Help:    "Duration of quote API calls by resource and outcome",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"resource", "outcome"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quoteflow_quoteapi_failures_total",
			Help: "Failed quote API calls by resource and error category",
		}, []string{"resource", "category"}),
	}
}

func (m *Metrics) observe(resource Resource, err error, seconds float64) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		m.Failures.WithLabelValues(string(resource), string(GetCategory(err))).Inc()
	}
	m.RequestDuration.WithLabelValues(string(resource), outcome).Observe(seconds)
}
