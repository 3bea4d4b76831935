package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())
	m.ObserveOperation("register", nil, time.Millisecond)
	m.ObserveOperation("register", errors.New("boom"), time.Millisecond)
	m.IncrementCacheLookup("hit")
	m.IncrementRegistered()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("register", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("register", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegisteredTotal))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("get", nil, time.Millisecond)
		m.IncrementCacheLookup("miss")
		m.IncrementRegistered()
	})
}
