package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_operations_total",
			Help: "Total number of inventory workflow operations",
		},
		[]string{"entity", "operation", "result"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_validation_failures_total",
			Help: "Total number of saves blocked by the validation gate",
		},
		[]string{"entity", "summary"},
	)

	Entities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inventory_entities",
			Help: "Current number of parts and products held in memory",
		},
		[]string{"entity"},
	)

	ReplicationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_replication_errors_total",
			Help: "Total number of change events that failed to replicate",
		},
		[]string{"target"},
	)

	ReplicationLag = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inventory_replication_lag_seconds",
			Help:    "Time between a change being committed in memory and being replicated",
			Buckets: prometheus.DefBuckets,
		},
	)
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Observe records the outcome of one workflow operation.
func Observe(entity, operation string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	Operations.WithLabelValues(entity, operation, result).Inc()
}
