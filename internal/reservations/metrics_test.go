package reservations

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ObserveCreated()
	m.ObserveConflict()
	m.ObserveRemoved()
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveCreated()
	m.ObserveConflict()
	m.ObserveRemoved()
}
