// Package middleware provides cross-cutting concerns for the task-graph
// scheduler.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-taskgraph/internal/ports"
)

// Compile-time check of interface compliance.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of scheduler throughput,
// solution production, and interface queue depths.
type PrometheusMetrics struct {
	turnLatency      *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	queueGauges      *prometheus.GaugeVec
	costHistogram    *prometheus.HistogramVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance registered
// with the given registerer. Pass prometheus.DefaultRegisterer for the
// global registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		turnLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scheduler_turn_duration_seconds",
				Help:    "Execution time of one scheduler turn.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "task"},
		),
		operationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduler_operations_total",
				Help: "Total number of scheduler operations by status.",
			},
			[]string{"operation", "status", "task"},
		),
		queueGauges: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "scheduler_queue_depth",
				Help: "Current depth of scheduler-visible queues.",
			},
			[]string{"metric", "task"},
		),
		costHistogram: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solution_cost",
				Help:    "Distribution of accepted solution costs.",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
			},
			[]string{"metric", "task"},
		),
	}
}

func taskLabel(labels map[string]string) string {
	task, ok := labels["task"]
	if !ok {
		return "unknown"
	}
	return task
}

// RecordLatency records the execution time of a scheduler operation.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	pm.turnLatency.WithLabelValues(operation, taskLabel(labels)).Observe(duration.Seconds())
}

// RecordCounter increments an operation counter.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	status, ok := labels["status"]
	if !ok {
		status = "ok"
	}
	pm.operationCounter.WithLabelValues(metric, status, taskLabel(labels)).Add(value)
}

// RecordGauge sets the current value of a queue-depth gauge.
func (pm *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	pm.queueGauges.WithLabelValues(metric, taskLabel(labels)).Set(value)
}

// RecordHistogram records a value in the cost histogram.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	pm.costHistogram.WithLabelValues(metric, taskLabel(labels)).Observe(value)
}
