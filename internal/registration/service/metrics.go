package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// End reasons.
const (
	ReasonExpired  = "expired"
	ReasonLogout   = "logout"
	ReasonShutdown = "shutdown"
)

// Metrics tracks the session lifecycle.
type Metrics struct {
	ActiveSessions  prometheus.Gauge
	SessionsStarted prometheus.Counter
	SessionsRebuilt *prometheus.CounterVec
	SessionsEnded   *prometheus.CounterVec
}

// NewMetrics registers session lifecycle metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "quoteflow_sessions_active",
			Help: "Quote sessions held in memory",
		}),
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "quoteflow_sessions_started_total",
			Help: "Quote sessions created",
		}),
		SessionsRebuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quoteflow_sessions_rebuilt_total",
			Help: "Sessions rebuilt from a valid token, by whether persisted state was found",
		}, []string{"restored"}),
		SessionsEnded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quoteflow_sessions_ended_total",
			Help: "Quote sessions removed from memory, by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) started() {
	if m == nil {
		return
	}
	m.SessionsStarted.Inc()
	m.ActiveSessions.Inc()
}

func (m *Metrics) rebuilt(restored bool) {
	if m == nil {
		return
	}
	label := "false"
	if restored {
		label = "true"
	}
	m.SessionsRebuilt.WithLabelValues(label).Inc()
	m.ActiveSessions.Inc()
}

func (m *Metrics) ended(reason string) {
	if m == nil {
		return
	}
	m.SessionsEnded.WithLabelValues(reason).Inc()
	m.ActiveSessions.Dec()
}
