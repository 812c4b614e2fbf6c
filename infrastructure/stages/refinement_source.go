package stages

import (
	"fmt"

	"github.com/ahrav/go-taskgraph/internal/domain"
	"github.com/ahrav/go-taskgraph/internal/ports"
)

var _ ports.MonitorSource = (*RefinementSource)(nil)

// RefinementSourceConfig controls how monitored solutions are turned into
// fresh candidates.
type RefinementSourceConfig struct {
	// ExtraCost is added on top of the monitored solution's cost when
	// seeding the refined candidate, biasing the scheduler toward
	// exploring original branches before refinements.
	ExtraCost float64 `yaml:"extra_cost" validate:"min=0"`
}

// RefinementSource backs a monitoring generator: every solution accepted
// by the monitored stage is re-seeded as a fresh candidate carrying the
// solution's end payload, letting an independent part of the tree refine
// completed partial plans.
type RefinementSource struct {
	config RefinementSourceConfig
}

// NewRefinementSource creates a RefinementSource with validated
// configuration.
func NewRefinementSource(config RefinementSourceConfig) (*RefinementSource, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &RefinementSource{config: config}, nil
}

// NewRefinementSourceFromConfig creates a RefinementSource from a
// configuration map. This is the boundary adapter for YAML task
// definitions.
func NewRefinementSourceFromConfig(config map[string]any) (*RefinementSource, error) {
	var cfg RefinementSourceConfig
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, err
	}
	return &RefinementSource{config: cfg}, nil
}

// Derive turns one monitored solution into a single spawn candidate
// carrying the solution's end payload. Solutions without an end state
// (pure connect records feed through their start state) fall back to the
// start payload; solutions with neither yield no candidates.
func (r *RefinementSource) Derive(s *domain.Solution) ([]ports.Derivation, error) {
	var payload any
	switch {
	case s.End() != nil:
		payload = s.End().Payload()
	case s.Start() != nil:
		payload = s.Start().Payload()
	default:
		return nil, nil
	}

	return []ports.Derivation{{
		Payload: payload,
		Cost:    s.Cost().Add(domain.Cost(r.config.ExtraCost)),
		Comment: fmt.Sprintf("refined from solution of %s", s.Creator()),
	}}, nil
}
