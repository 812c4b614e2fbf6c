package application

// TaskDefinition is the declarative specification of a stage tree and
// serves as the primary configuration entry point for the YAML loader.
// Stages are listed in chain order; the loader assembles them into a
// serial container wrapped by a Task.
type TaskDefinition struct {
	// Version specifies the configuration schema version.
	Version string `yaml:"version" validate:"required"`
	// Metadata contains descriptive information about the task.
	Metadata Metadata `yaml:"metadata" validate:"required"`
	// Stages defines the chain of stages in tree order.
	Stages []StageConfig `yaml:"stages" validate:"required,min=1,dive"`
	// Budget constrains how long the scheduler loop may run.
	Budget BudgetConfig `yaml:"budget"`
}

// Metadata provides descriptive information about a task definition to
// support organization and operational management.
type Metadata struct {
	// Name is the human-readable identifier for this task.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// Description explains the task's purpose.
	Description string `yaml:"description" validate:"max=1000"`
	// Labels are arbitrary key-value pairs for integration with external
	// systems.
	Labels map[string]string `yaml:"labels" validate:"max=50"`
}

// StageConfig defines one stage of the chain: its registered type, its
// position-stable name, and type-specific parameters.
type StageConfig struct {
	// Name is the unique identifier of the stage within the task.
	Name string `yaml:"name" validate:"required,stagename"`
	// Type selects the stage implementation to instantiate from the
	// registry.
	Type string `yaml:"type" validate:"required,min=1,max=100"`
	// Monitors names an earlier stage whose accepted solutions re-trigger
	// this stage. Only meaningful for monitoring generator types.
	Monitors string `yaml:"monitors,omitempty" validate:"omitempty,stagename"`
	// Parameters contains type-specific configuration validated by the
	// stage factory.
	Parameters map[string]any `yaml:"parameters"`
}

// BudgetConfig bounds a planning run. The kernel itself has no intrinsic
// timeouts; these limits govern the external scheduler loop.
type BudgetConfig struct {
	// MaxIterations caps the number of scheduler turns; zero means
	// unlimited.
	MaxIterations int `yaml:"max_iterations" validate:"min=0"`
	// TurnsPerSecond paces the scheduler loop; zero disables pacing.
	TurnsPerSecond float64 `yaml:"turns_per_second" validate:"min=0"`
}
