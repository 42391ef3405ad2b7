package ioimport

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of imported samples used as metric labels.
const (
	OutcomeInserted = "inserted"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
	OutcomeCached   = "cached"
)

// Metrics are counters of the import pipeline.
type Metrics struct {
	Samples    *prometheus.CounterVec
	Alignments prometheus.Counter
}

// NewMetrics creates import counters and registers them with reg when it
// is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	res := &Metrics{
		Samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gnvariants",
			Subsystem: "import",
			Name:      "samples_total",
			Help:      "Processed samples by outcome.",
		}, []string{"outcome"}),
		Alignments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gnvariants",
			Subsystem: "import",
			Name:      "alignments_total",
			Help:      "Sequences aligned against a reference.",
		}),
	}
	if reg != nil {
		reg.MustRegister(res.Samples, res.Alignments)
	}
	return res
}

func (m *Metrics) add(outcome string) {
	m.Samples.WithLabelValues(outcome).Inc()
}
