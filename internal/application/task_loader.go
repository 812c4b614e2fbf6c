package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-taskgraph/internal/ports"
)

// TaskLoader parses, validates, and caches declarative task definitions,
// transforming YAML specifications into runnable Tasks. Validated
// definitions are cached by SHA256 content hash; the stage trees built
// from them are mutable and therefore always constructed fresh.
type TaskLoader struct {
	// validator performs struct field validation and custom rules for
	// task definitions.
	validator *validator.Validate
	// registry provides factory methods for creating stages by type.
	registry ports.StageRegistry
	// cache stores validated definitions indexed by SHA256 hash of the
	// normalized YAML to avoid re-validating identical documents.
	cache map[string]*TaskDefinition
	// cacheMu guards cache during concurrent loads.
	cacheMu sync.RWMutex
	// sf prevents duplicate validation when multiple goroutines load the
	// same definition simultaneously.
	sf singleflight.Group
}

// NewTaskLoader creates a loader backed by the given stage registry.
func NewTaskLoader(registry ports.StageRegistry) (*TaskLoader, error) {
	v := validator.New()
	if err := registerCustomValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	return &TaskLoader{
		validator: v,
		registry:  registry,
		cache:     make(map[string]*TaskDefinition),
	}, nil
}

// LoadFromFile parses a YAML task definition from disk and builds a fresh
// Task from it. Validation results are cached by content hash; the
// returned Task is a new, unshared instance ready for Plan.
func (tl *TaskLoader) LoadFromFile(ctx context.Context, path string) (*Task, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return tl.load(ctx, data)
}

// LoadFromReader parses a YAML task definition from any reader and builds
// a fresh Task from it.
func (tl *TaskLoader) LoadFromReader(ctx context.Context, r io.Reader) (*Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return tl.load(ctx, data)
}

func (tl *TaskLoader) load(ctx context.Context, data []byte) (*Task, error) {
	def, err := tl.definition(data)
	if err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return tl.Build(def)
}

// definition parses and validates the raw YAML, serving repeats from the
// content-hash cache under singleflight.
func (tl *TaskLoader) definition(data []byte) (*TaskDefinition, error) {
	var def TaskDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Hash the normalized form so formatting differences share a cache
	// entry.
	normalized, err := yaml.Marshal(&def)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize definition: %w", err)
	}
	sum := sha256.Sum256(normalized)
	hash := hex.EncodeToString(sum[:])

	v, err, _ := tl.sf.Do(hash, func() (any, error) {
		if cached, ok := tl.cachedDefinition(hash); ok {
			return cached, nil
		}
		if err := tl.validator.Struct(&def); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		if err := validateDefinition(&def); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		tl.cacheDefinition(hash, &def)
		return &def, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*TaskDefinition), nil
}

func (tl *TaskLoader) cachedDefinition(hash string) (*TaskDefinition, bool) {
	tl.cacheMu.RLock()
	defer tl.cacheMu.RUnlock()
	def, ok := tl.cache[hash]
	return def, ok
}

func (tl *TaskLoader) cacheDefinition(hash string, def *TaskDefinition) {
	tl.cacheMu.Lock()
	defer tl.cacheMu.Unlock()
	tl.cache[hash] = def
}

// Build assembles a runnable Task from a validated definition: every
// stage is created through the registry, chained into a serial container
// in listed order, and wrapped with the definition's budget.
func (tl *TaskLoader) Build(def *TaskDefinition) (*Task, error) {
	container := NewSerialContainer(def.Metadata.Name)
	byName := make(map[string]ports.Stage, len(def.Stages))

	for _, sc := range def.Stages {
		config := make(map[string]any, len(sc.Parameters)+1)
		for k, v := range sc.Parameters {
			config[k] = v
		}
		if sc.Monitors != "" {
			monitored, ok := byName[sc.Monitors]
			if !ok {
				return nil, fmt.Errorf("stage %q monitors %q which is not yet built", sc.Name, sc.Monitors)
			}
			// Factories for monitoring stage types retrieve the live
			// stage reference from their config map.
			config[MonitoredStageKey] = monitored
		}

		stage, err := tl.registry.CreateStage(sc.Type, sc.Name, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create stage %q: %w", sc.Name, err)
		}
		if err := container.Add(stage); err != nil {
			return nil, err
		}
		byName[sc.Name] = stage
	}

	opts := []TaskOption{}
	if def.Budget.MaxIterations > 0 {
		opts = append(opts, WithIterationLimit(def.Budget.MaxIterations))
	}
	if def.Budget.TurnsPerSecond > 0 {
		opts = append(opts, WithPacing(rate.Limit(def.Budget.TurnsPerSecond), 1))
	}
	return NewTask(def.Metadata.Name, container, opts...), nil
}

// MonitoredStageKey is the config key under which the loader injects the
// live monitored stage reference for monitoring generator factories.
const MonitoredStageKey = "__monitored_stage"
