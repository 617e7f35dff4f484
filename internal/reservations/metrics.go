package reservations

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters for booking outcomes.
type Metrics struct {
	createdTotal   prometheus.Counter
	conflictsTotal prometheus.Counter
	removedTotal   prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		createdTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Total reservations created",
		}),
		conflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "bookings",
			Name:      "slot_conflicts_total",
			Help:      "Total create/update attempts rejected because the slot was taken",
		}),
		removedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "bookings",
			Name:      "removed_total",
			Help:      "Total reservations deleted",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.conflictsTotal, m.removedTotal)
	return m
}

func (m *Metrics) ObserveCreated() {
	if m == nil {
		return
	}
	m.createdTotal.Inc()
}

func (m *Metrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflictsTotal.Inc()
}

func (m *Metrics) ObserveRemoved() {
	if m == nil {
		return
	}
	m.removedTotal.Inc()
}
