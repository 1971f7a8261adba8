package declaration

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the declaration domain's Prometheus metrics.
type Metrics struct {
	Sessions     *prometheus.CounterVec
	Declarations prometheus.Counter
	Resolutions  *prometheus.CounterVec
}

// NewMetrics creates and registers the declaration metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Sessions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wastetrack_declaration_sessions_total",
			Help: "Declaration sessions submitted to the registry by outcome",
		}, []string{"kind", "outcome"}),
		Declarations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wastetrack_declarations_submitted_total",
			Help: "Individual receival declarations included in submitted sessions",
		}),
		Resolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wastetrack_declaration_session_resolutions_total",
			Help: "Pending sessions resolved by the poller, by final status",
		}, []string{"status"}),
	}
}

func (m *Metrics) RecordSession(kind Kind, accepted bool) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	m.Sessions.WithLabelValues(string(kind), outcome).Inc()
}

func (m *Metrics) RecordDeclarations(n int) {
	if m == nil {
		return
	}
	m.Declarations.Add(float64(n))
}

func (m *Metrics) RecordResolution(status SessionStatus) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(string(status)).Inc()
}
