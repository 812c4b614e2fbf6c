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

var _ ports.Bridger = (*SpliceBridger)(nil)

// SpliceBridgerConfig controls when two frontier words may be linked.
type SpliceBridgerConfig struct {
	// MaxGap is the largest edit distance the bridger will close. Zero
	// means the two words must already match.
	MaxGap int `yaml:"max_gap" validate:"min=0"`

	// CaseSensitive controls case sensitivity of the distance metric.
	CaseSensitive bool `yaml:"case_sensitive"`
}

// SpliceBridger links a forward-growing chain and a backward-growing
// chain for a connecting stage: a pair of frontier words is bridged when
// their edit distance is within the configured gap, at a cost equal to
// that distance.
type SpliceBridger struct {
	name   string
	config SpliceBridgerConfig
	tracer trace.Tracer
}

// NewSpliceBridger creates a SpliceBridger with validated configuration.
func NewSpliceBridger(name string, config SpliceBridgerConfig) (*SpliceBridger, error) {
	if name == "" {
		return nil, ErrEmptyStageName
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &SpliceBridger{
		name:   name,
		config: config,
		tracer: otel.Tracer("splice-bridger"),
	}, nil
}

// NewSpliceBridgerFromConfig creates a SpliceBridger from a configuration
// map. This is the boundary adapter for YAML task definitions.
func NewSpliceBridgerFromConfig(name string, config map[string]any) (*SpliceBridger, error) {
	var cfg SpliceBridgerConfig
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, err
	}
	return NewSpliceBridger(name, cfg)
}

// Bridge attempts to link the two frontier words. Pairs within the gap
// succeed at a cost equal to their edit distance; pairs beyond it are
// rejected with a failure cost so the kernel discards them permanently.
func (b *SpliceBridger) Bridge(start, end any) (domain.Cost, string, error) {
	_, span := b.tracer.Start(context.Background(), "SpliceBridger.Bridge",
		trace.WithAttributes(attribute.String("stage.name", b.name)),
	)
	defer span.End()

	from, err := wordPayload(start)
	if err != nil {
		span.RecordError(err)
		return domain.Failure(), "", err
	}
	to, err := wordPayload(end)
	if err != nil {
		span.RecordError(err)
		return domain.Failure(), "", err
	}

	dist := levenshtein.ComputeDistance(
		fold(from, b.config.CaseSensitive),
		fold(to, b.config.CaseSensitive),
	)
	span.SetAttributes(attribute.Int("edit.distance", dist))

	if dist > b.config.MaxGap {
		return domain.Failure(),
			fmt.Sprintf("%q and %q are %d edits apart, gap limit is %d", from, to, dist, b.config.MaxGap),
			nil
	}
	return domain.Cost(dist), fmt.Sprintf("spliced %q to %q across %d edits", from, to, dist), nil
}
