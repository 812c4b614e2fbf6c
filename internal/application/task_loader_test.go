package application

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTaskYAML = `
version: "1.0"
metadata:
  name: word-ladder
  description: Walk cat to cot one edit at a time.
stages:
  - name: seeds
    type: seed_generator
    parameters:
      seeds:
        - word: cat
          cost: 0
  - name: walk
    type: edit_propagator
    parameters:
      target: cot
      direction: forward
budget:
  max_iterations: 100
`

func newTestLoader(t *testing.T) *TaskLoader {
	t.Helper()
	loader, err := NewTaskLoader(NewDefaultStageRegistry())
	require.NoError(t, err)
	return loader
}

func TestLoadFromReaderBuildsTask(t *testing.T) {
	loader := newTestLoader(t)

	task, err := loader.LoadFromReader(context.Background(), strings.NewReader(validTaskYAML))
	require.NoError(t, err)

	assert.Equal(t, "word-ladder", task.Name())
	require.Len(t, task.Root().Children(), 2)
	assert.Equal(t, "seeds", task.Root().Children()[0].Name())
	assert.Equal(t, "walk", task.Root().Children()[1].Name())
}

func TestLoadedTaskPlansEndToEnd(t *testing.T) {
	loader := newTestLoader(t)
	task, err := loader.LoadFromReader(context.Background(), strings.NewReader(validTaskYAML))
	require.NoError(t, err)

	require.NoError(t, task.Plan(context.Background()))

	// "cat" is one edit from "cot": one seed turn plus one walk turn.
	require.Len(t, task.EndStates(), 1)
	assert.Equal(t, "cot", task.EndStates()[0].Payload())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validTaskYAML), 0o600))

	loader := newTestLoader(t)
	task, err := loader.LoadFromFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "word-ladder", task.Name())

	_, err = loader.LoadFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			yaml:    "stages: [",
			wantErr: "parse YAML",
		},
		{
			name: "missing version",
			yaml: `
metadata:
  name: t
stages:
  - name: seeds
    type: seed_generator
`,
			wantErr: "validation failed",
		},
		{
			name: "no stages",
			yaml: `
version: "1.0"
metadata:
  name: t
stages: []
`,
			wantErr: "validation failed",
		},
		{
			name: "invalid stage name",
			yaml: `
version: "1.0"
metadata:
  name: t
stages:
  - name: "9lives"
    type: seed_generator
`,
			wantErr: "validation failed",
		},
		{
			name: "duplicate stage names",
			yaml: `
version: "1.0"
metadata:
  name: t
stages:
  - name: seeds
    type: seed_generator
    parameters:
      seeds: [{word: a}]
  - name: seeds
    type: seed_generator
    parameters:
      seeds: [{word: b}]
`,
			wantErr: "used at positions",
		},
		{
			name: "monitor of unknown stage",
			yaml: `
version: "1.0"
metadata:
  name: t
stages:
  - name: refine
    type: refinement_generator
    monitors: ghost
`,
			wantErr: "unknown stage",
		},
		{
			name: "self-monitoring stage",
			yaml: `
version: "1.0"
metadata:
  name: t
stages:
  - name: refine
    type: refinement_generator
    monitors: refine
`,
			wantErr: "cannot monitor itself",
		},
	}
	loader := newTestLoader(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.LoadFromReader(context.Background(), strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsForwardMonitorReference(t *testing.T) {
	// Monitors must name a stage built earlier in the chain; the live
	// reference is injected at build time.
	doc := `
version: "1.0"
metadata:
  name: t
stages:
  - name: refine
    type: refinement_generator
    monitors: seeds
  - name: seeds
    type: seed_generator
    parameters:
      seeds: [{word: a}]
`
	loader := newTestLoader(t)
	_, err := loader.LoadFromReader(context.Background(), strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not yet built")
}

func TestLoadBuildsMonitoringChain(t *testing.T) {
	doc := `
version: "1.0"
metadata:
  name: t
stages:
  - name: seeds
    type: seed_generator
    parameters:
      seeds: [{word: a}]
  - name: refine
    type: refinement_generator
    monitors: seeds
    parameters:
      extra_cost: 1
`
	loader := newTestLoader(t)
	task, err := loader.LoadFromReader(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)

	m, ok := task.Root().Children()[1].(*MonitoringGenerator)
	require.True(t, ok)
	assert.True(t, m.Subscribed())
}

func TestDefinitionCacheByContentHash(t *testing.T) {
	loader := newTestLoader(t)

	_, err := loader.LoadFromReader(context.Background(), strings.NewReader(validTaskYAML))
	require.NoError(t, err)
	_, err = loader.LoadFromReader(context.Background(), strings.NewReader(validTaskYAML))
	require.NoError(t, err)

	assert.Len(t, loader.cache, 1)
}

func TestBuildAppliesBudget(t *testing.T) {
	loader := newTestLoader(t)
	task, err := loader.LoadFromReader(context.Background(), strings.NewReader(validTaskYAML))
	require.NoError(t, err)
	assert.Equal(t, 100, task.maxIterations)
}
