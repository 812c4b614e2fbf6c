package stages

import (
	"fmt"

	"github.com/ahrav/go-taskgraph/internal/domain"
	"github.com/ahrav/go-taskgraph/internal/ports"
)

var _ ports.StateSource = (*SeedSource)(nil)

// Seed is one candidate word a SeedSource originates, with its absolute
// starting cost.
type Seed struct {
	// Word is the planning-state payload.
	Word string `yaml:"word" validate:"required"`
	// Cost is the absolute starting cost of the spawned state.
	Cost float64 `yaml:"cost" validate:"min=0"`
}

// SeedSourceConfig lists the candidate words to originate, in emission
// order.
type SeedSourceConfig struct {
	// Seeds are emitted one per generator turn, in listed order.
	Seeds []Seed `yaml:"seeds" validate:"required,min=1,dive"`
}

// SeedSource originates a fixed list of candidate words for a generator
// stage, one per compute turn. Once the list is exhausted it permanently
// reports no more candidates, which the scheduler treats as "done".
type SeedSource struct {
	seeds []Seed
	next  int
}

// NewSeedSource creates a source emitting the configured seeds in order.
func NewSeedSource(config SeedSourceConfig) (*SeedSource, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &SeedSource{seeds: config.Seeds}, nil
}

// NewSeedSourceFromConfig creates a SeedSource from a configuration map.
// This is the boundary adapter for YAML task definitions.
func NewSeedSourceFromConfig(config map[string]any) (*SeedSource, error) {
	var cfg SeedSourceConfig
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, err
	}
	return &SeedSource{seeds: cfg.Seeds}, nil
}

// CanProduce reports whether any seed remains.
func (s *SeedSource) CanProduce() bool { return s.next < len(s.seeds) }

// Produce emits the next seed as a spawn candidate.
func (s *SeedSource) Produce() (ports.Derivation, error) {
	if s.next >= len(s.seeds) {
		return ports.Derivation{}, fmt.Errorf("seed source exhausted")
	}
	seed := s.seeds[s.next]
	s.next++
	return ports.Derivation{
		Payload: seed.Word,
		Cost:    domain.Cost(seed.Cost),
		Comment: fmt.Sprintf("seed %q", seed.Word),
	}, nil
}

// Remaining returns how many seeds are left to emit.
func (s *SeedSource) Remaining() int { return len(s.seeds) - s.next }
