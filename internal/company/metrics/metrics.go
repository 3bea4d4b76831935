package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the company register.
type Metrics struct {
	// Register operations by operation and result ("ok", "error")
	Operations *prometheus.CounterVec

	// Cache lookups by result ("hit", "miss", "error")
	CacheLookups *prometheus.CounterVec

	OperationLatency *prometheus.HistogramVec

	RegisteredTotal prometheus.Counter
}

// New creates the company metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ukid_company_operations_total",
			Help: "Company register operations by operation and result",
		}, []string{"operation", "result"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ukid_company_cache_lookups_total",
			Help: "Company cache lookups by result",
		}, []string{"result"}),

		OperationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ukid_company_operation_duration_seconds",
			Help:    "Duration of company register operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		RegisteredTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "ukid_company_registered_total",
			Help: "Companies registered since start-up",
		}),
	}
}

// ObserveOperation records the outcome and duration of one operation.
func (m *Metrics) ObserveOperation(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Operations.WithLabelValues(operation, result).Inc()
	m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementRegistered() {
	if m != nil {
		m.RegisteredTotal.Inc()
	}
}
