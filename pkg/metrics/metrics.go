package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec

	// Id allocation metrics
	IDAllocations *prometheus.CounterVec
	IDCollisions  *prometheus.CounterVec

	// Seeding metrics
	SeededRecords *prometheus.CounterVec
}

// NewMetrics creates all application metrics and registers them with reg.
// A nil reg registers with the default registry.
func NewMetrics(namespace, subsystem string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		DatabaseOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		IDAllocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "id_allocations_total",
			Help:      "Total number of ids handed out per collection",
		}, []string{"collection", "strategy"}),
		IDCollisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "id_collisions_total",
			Help:      "Total number of inserts rejected because the allocated id was already taken",
		}, []string{"collection"}),

		SeededRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "seeded_records_total",
			Help:      "Total number of bootstrap records inserted at startup",
		}, []string{"collection"}),
	}
}

// ObserveDatabase records the outcome and latency of a single store call.
// It is safe to call on a nil *Metrics.
func (m *Metrics) ObserveDatabase(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DatabaseOperations.WithLabelValues(operation, status).Inc()
	m.DatabaseLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) AllocatedID(collection, strategy string) {
	if m == nil {
		return
	}
	m.IDAllocations.WithLabelValues(collection, strategy).Inc()
}

func (m *Metrics) Collision(collection string) {
	if m == nil {
		return
	}
	m.IDCollisions.WithLabelValues(collection).Inc()
}

func (m *Metrics) Seeded(collection string, n int) {
	if m == nil {
		return
	}
	m.SeededRecords.WithLabelValues(collection).Add(float64(n))
}
