package ports

import "time"

// MetricsCollector defines the interface for collecting operational
// metrics from the scheduler. Implementations should integrate with
// observability platforms like Prometheus or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// Useful for tracking events like computes, solutions, and failures.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	// Useful for tracking values like interface queue depth.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	// Useful for tracking distributions like solution costs.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// StageFactory creates a configured stage instance from a flexible
// configuration map, enabling declarative task definitions.
type StageFactory func(name string, config map[string]any) (Stage, error)

// StageRegistry provides factory methods for creating stages based on
// their declared type, backing the YAML task loader.
type StageRegistry interface {
	// CreateStage instantiates a stage of the given type. It fails for
	// unregistered types, empty names, or invalid configuration.
	CreateStage(stageType, name string, config map[string]any) (Stage, error)

	// RegisterFactory adds a custom stage type. It fails if the type is
	// already registered.
	RegisterFactory(stageType string, factory StageFactory) error

	// ListTypes returns the registered stage type names, sorted.
	ListTypes() []string
}
