package application

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ahrav/go-taskgraph/infrastructure/stages"
	"github.com/ahrav/go-taskgraph/internal/ports"
)

// Compile-time check of interface compliance.
var _ ports.StageRegistry = (*DefaultStageRegistry)(nil)

// DefaultStageRegistry implements StageRegistry with the built-in stage
// types pre-registered. It supports dynamic registration of additional
// factories for host-specific stage kinds.
type DefaultStageRegistry struct {
	// factories maps stage type strings to their factory functions.
	factories map[string]ports.StageFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
}

// NewDefaultStageRegistry creates a registry with the built-in stage
// types registered: seed_generator, edit_propagator, edit_bridge, and
// refinement_generator.
func NewDefaultStageRegistry() *DefaultStageRegistry {
	r := &DefaultStageRegistry{factories: make(map[string]ports.StageFactory)}
	r.registerBuiltinFactories()
	return r
}

// registerBuiltinFactories wires the stage bodies shipped under
// infrastructure/stages into kernel stage kinds.
func (r *DefaultStageRegistry) registerBuiltinFactories() {
	r.factories["seed_generator"] = func(name string, config map[string]any) (ports.Stage, error) {
		source, err := stages.NewSeedSourceFromConfig(config)
		if err != nil {
			return nil, err
		}
		return NewGenerator(name, source), nil
	}

	r.factories["edit_propagator"] = func(name string, config map[string]any) (ports.Stage, error) {
		dir, err := directionFromConfig(config)
		if err != nil {
			return nil, err
		}
		prop, err := stages.NewEditPropagatorFromConfig(name, config)
		if err != nil {
			return nil, err
		}
		return NewPropagating(name, dir, prop), nil
	}

	r.factories["edit_bridge"] = func(name string, config map[string]any) (ports.Stage, error) {
		bridger, err := stages.NewSpliceBridgerFromConfig(name, config)
		if err != nil {
			return nil, err
		}
		return NewConnecting(name, bridger), nil
	}

	r.factories["refinement_generator"] = func(name string, config map[string]any) (ports.Stage, error) {
		monitored, _ := config[MonitoredStageKey].(ports.Stage)
		if monitored == nil {
			return nil, fmt.Errorf("refinement_generator %q requires a monitored stage", name)
		}
		source, err := stages.NewRefinementSourceFromConfig(config)
		if err != nil {
			return nil, err
		}
		return NewMonitoringGenerator(name, monitored, source), nil
	}
}

// directionFromConfig reads the optional "direction" parameter used by
// propagating stage types. Missing or empty means auto-detection.
func directionFromConfig(config map[string]any) (PropagationDirection, error) {
	raw, ok := config["direction"]
	if !ok {
		return Auto, nil
	}
	s, ok := raw.(string)
	if !ok {
		return Auto, fmt.Errorf("direction must be a string, got %T", raw)
	}
	switch s {
	case "", "auto":
		return Auto, nil
	case "forward":
		return ForwardOnly, nil
	case "backward":
		return BackwardOnly, nil
	default:
		return Auto, fmt.Errorf("unsupported direction %q", s)
	}
}

// CreateStage instantiates a stage of the given type, delegating to the
// registered factory.
func (r *DefaultStageRegistry) CreateStage(stageType, name string, config map[string]any) (ports.Stage, error) {
	r.mu.RLock()
	factory, exists := r.factories[stageType]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unsupported stage type: %s", stageType)
	}
	if name == "" {
		return nil, fmt.Errorf("stage name cannot be empty")
	}
	if config == nil {
		config = make(map[string]any)
	}
	return factory(name, config)
}

// RegisterFactory adds a custom stage type to the registry.
func (r *DefaultStageRegistry) RegisterFactory(stageType string, factory ports.StageFactory) error {
	if stageType == "" {
		return fmt.Errorf("stage type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[stageType]; exists {
		return fmt.Errorf("stage type %s already registered", stageType)
	}
	r.factories[stageType] = factory
	return nil
}

// ListTypes returns the registered stage type names, sorted.
func (r *DefaultStageRegistry) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
