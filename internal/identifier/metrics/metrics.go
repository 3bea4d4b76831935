package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the identifier endpoints.
type Metrics struct {
	// Parse outcomes by kind and result ("valid", "invalid")
	ParseOutcomes *prometheus.CounterVec

	// Items per batch request
	BatchSize prometheus.Histogram
}

// New creates the identifier metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ParseOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ukid_identifier_parse_total",
			Help: "Identifier parse attempts by kind and result",
		}, []string{"kind", "result"}),

		BatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ukid_identifier_batch_items",
			Help:    "Number of items in identifier batch requests",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
	}
}

// IncrementParse records one parse outcome.
func (m *Metrics) IncrementParse(kind string, valid bool) {
	if m == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.ParseOutcomes.WithLabelValues(kind, result).Inc()
}

// ObserveBatchSize records how many items a batch request carried.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}
