package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-taskgraph/internal/ports"
)

func TestRegistryListsBuiltinTypes(t *testing.T) {
	r := NewDefaultStageRegistry()
	assert.Equal(t, []string{
		"edit_bridge",
		"edit_propagator",
		"refinement_generator",
		"seed_generator",
	}, r.ListTypes())
}

func TestRegistryCreateStage(t *testing.T) {
	r := NewDefaultStageRegistry()

	t.Run("seed generator", func(t *testing.T) {
		s, err := r.CreateStage("seed_generator", "seeds", map[string]any{
			"seeds": []any{map[string]any{"word": "cat", "cost": 0}},
		})
		require.NoError(t, err)
		assert.IsType(t, &Generator{}, s)
		assert.Equal(t, "seeds", s.Name())
	})

	t.Run("edit propagator with explicit direction", func(t *testing.T) {
		s, err := r.CreateStage("edit_propagator", "walk", map[string]any{
			"target":    "cot",
			"direction": "backward",
		})
		require.NoError(t, err)
		p, ok := s.(*Propagating)
		require.True(t, ok)
		assert.Equal(t, ports.PropagatesBackward, p.RequiredInterface())
	})

	t.Run("edit bridge", func(t *testing.T) {
		s, err := r.CreateStage("edit_bridge", "bridge", map[string]any{"max_gap": 2})
		require.NoError(t, err)
		assert.IsType(t, &Connecting{}, s)
	})

	t.Run("refinement generator needs a monitored stage", func(t *testing.T) {
		_, err := r.CreateStage("refinement_generator", "refine", map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "monitored stage")
	})

	t.Run("refinement generator with injected stage", func(t *testing.T) {
		monitored, err := r.CreateStage("seed_generator", "seeds", map[string]any{
			"seeds": []any{map[string]any{"word": "cat"}},
		})
		require.NoError(t, err)

		s, err := r.CreateStage("refinement_generator", "refine", map[string]any{
			MonitoredStageKey: monitored,
		})
		require.NoError(t, err)
		assert.IsType(t, &MonitoringGenerator{}, s)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := r.CreateStage("teleporter", "t", nil)
		assert.ErrorContains(t, err, "unsupported stage type")
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := r.CreateStage("seed_generator", "", nil)
		assert.ErrorContains(t, err, "name cannot be empty")
	})

	t.Run("invalid configuration", func(t *testing.T) {
		_, err := r.CreateStage("edit_propagator", "walk", map[string]any{})
		assert.Error(t, err, "target is required")
	})
}

func TestDirectionFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]any
		want    PropagationDirection
		wantErr bool
	}{
		{"missing defaults to auto", map[string]any{}, Auto, false},
		{"empty string is auto", map[string]any{"direction": ""}, Auto, false},
		{"explicit auto", map[string]any{"direction": "auto"}, Auto, false},
		{"forward", map[string]any{"direction": "forward"}, ForwardOnly, false},
		{"backward", map[string]any{"direction": "backward"}, BackwardOnly, false},
		{"unsupported value", map[string]any{"direction": "sideways"}, Auto, true},
		{"non-string value", map[string]any{"direction": 7}, Auto, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := directionFromConfig(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistryRegisterFactory(t *testing.T) {
	r := NewDefaultStageRegistry()

	t.Run("custom factory is usable", func(t *testing.T) {
		err := r.RegisterFactory("noop_generator", func(name string, _ map[string]any) (ports.Stage, error) {
			return NewGenerator(name, &listSource{}), nil
		})
		require.NoError(t, err)

		s, err := r.CreateStage("noop_generator", "noop", nil)
		require.NoError(t, err)
		assert.Equal(t, "noop", s.Name())
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		err := r.RegisterFactory("seed_generator", func(string, map[string]any) (ports.Stage, error) {
			return nil, nil
		})
		assert.ErrorContains(t, err, "already registered")
	})

	t.Run("empty type or nil factory", func(t *testing.T) {
		assert.Error(t, r.RegisterFactory("", nil))
		assert.Error(t, r.RegisterFactory("x", nil))
	})
}
