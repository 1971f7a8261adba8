package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the waste stream domain's Prometheus metrics.
type Metrics struct {
	DraftsCreated prometheus.Counter
	Validations   *prometheus.CounterVec
	Activations   prometheus.Counter
}

// New creates and registers the waste stream metrics.
func New() *Metrics {
	return &Metrics{
		DraftsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wastetrack_waste_stream_drafts_created_total",
			Help: "Total number of waste stream drafts created",
		}),
		Validations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wastetrack_waste_stream_validations_total",
			Help: "Registry validation verdicts by outcome",
		}, []string{"outcome"}),
		Activations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wastetrack_waste_stream_activations_total",
			Help: "Total number of waste streams activated after registry approval",
		}),
	}
}

func (m *Metrics) RecordValidation(valid bool) {
	if m == nil {
		return
	}
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	m.Validations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordDraftCreated() {
	if m == nil {
		return
	}
	m.DraftsCreated.Inc()
}

func (m *Metrics) RecordActivation() {
	if m == nil {
		return
	}
	m.Activations.Inc()
}
