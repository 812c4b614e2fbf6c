package stages

import (
	"context"
	"fmt"

	"github.com/agnivade/levenshtein"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-taskgraph/internal/domain"
	"github.com/ahrav/go-taskgraph/internal/ports"
)

var _ ports.Propagator = (*EditPropagator)(nil)

// EditPropagatorConfig controls how the propagator walks words toward the
// target.
type EditPropagatorConfig struct {
	// Target is the word every branch walks toward.
	Target string `yaml:"target" validate:"required"`

	// CaseSensitive controls case sensitivity of the distance metric.
	// When false, Unicode-aware case folding is applied before comparing.
	CaseSensitive bool `yaml:"case_sensitive"`

	// MaxDistance rejects any pulled word farther than this many edits
	// from the target, pruning hopeless branches. Zero means unlimited.
	MaxDistance int `yaml:"max_distance" validate:"min=0"`
}

// EditPropagator derives successor words for a propagating stage: each
// derivation applies one character edit (replace, insert, or delete) that
// moves the pulled word closer to the configured target, at incremental
// cost 1. Words beyond the configured edit-distance bound are reported as
// failed derivations and pruned from further propagation.
//
// EditPropagator is stateless and deterministic; it only returns data and
// never touches kernel structures.
type EditPropagator struct {
	name   string
	config EditPropagatorConfig
	tracer trace.Tracer
}

// NewEditPropagator creates an EditPropagator with validated
// configuration.
func NewEditPropagator(name string, config EditPropagatorConfig) (*EditPropagator, error) {
	if name == "" {
		return nil, ErrEmptyStageName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &EditPropagator{
		name:   name,
		config: config,
		tracer: otel.Tracer("edit-propagator"),
	}, nil
}

// NewEditPropagatorFromConfig creates an EditPropagator from a
// configuration map. This is the boundary adapter for YAML task
// definitions.
func NewEditPropagatorFromConfig(name string, config map[string]any) (*EditPropagator, error) {
	var cfg EditPropagatorConfig
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, err
	}
	return NewEditPropagator(name, cfg)
}

// Propagate derives at most one successor: the word one edit closer to
// the target. A word already at the target ends the branch with no
// derivations; a word beyond the distance bound yields a single failed
// derivation so the kernel records the dead branch.
func (p *EditPropagator) Propagate(payload any, dir domain.Direction) ([]ports.Derivation, error) {
	_, span := p.tracer.Start(context.Background(), "EditPropagator.Propagate",
		trace.WithAttributes(
			attribute.String("stage.name", p.name),
			attribute.String("direction", dir.String()),
		),
	)
	defer span.End()

	word, err := wordPayload(payload)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	normWord := fold(word, p.config.CaseSensitive)
	normTarget := fold(p.config.Target, p.config.CaseSensitive)
	dist := levenshtein.ComputeDistance(normWord, normTarget)
	span.SetAttributes(attribute.Int("edit.distance", dist))

	if dist == 0 {
		// Branch complete: the target has been reached.
		return nil, nil
	}
	if p.config.MaxDistance > 0 && dist > p.config.MaxDistance {
		return []ports.Derivation{{
			Cost:    domain.Failure(),
			Comment: fmt.Sprintf("%q is %d edits from target, bound is %d", word, dist, p.config.MaxDistance),
		}}, nil
	}

	next := stepToward(normWord, normTarget)
	return []ports.Derivation{{
		Payload: next,
		Cost:    1,
		Comment: fmt.Sprintf("%q -> %q (%s)", word, next, dir),
	}}, nil
}

// stepToward returns word transformed by the single edit that fixes the
// first difference from target: replace when lengths match, insert when
// word is shorter, delete when longer.
func stepToward(word, target string) string {
	w, t := []rune(word), []rune(target)

	i := 0
	for i < len(w) && i < len(t) && w[i] == t[i] {
		i++
	}

	switch {
	case len(w) < len(t):
		out := make([]rune, 0, len(w)+1)
		out = append(out, w[:i]...)
		out = append(out, t[i])
		out = append(out, w[i:]...)
		return string(out)
	case len(w) > len(t):
		out := make([]rune, 0, len(w)-1)
		out = append(out, w[:i]...)
		out = append(out, w[i+1:]...)
		return string(out)
	default:
		out := make([]rune, len(w))
		copy(out, w)
		out[i] = t[i]
		return string(out)
	}
}
