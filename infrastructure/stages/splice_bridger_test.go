package stages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-taskgraph/internal/domain"
)

func TestSpliceBridgerWithinGap(t *testing.T) {
	b, err := NewSpliceBridger("bridge", SpliceBridgerConfig{MaxGap: 2})
	require.NoError(t, err)

	cost, comment, err := b.Bridge("cat", "cot")
	require.NoError(t, err)
	assert.Equal(t, domain.Cost(1), cost)
	assert.Contains(t, comment, "spliced")

	// Identical frontiers bridge for free.
	cost, _, err = b.Bridge("cat", "cat")
	require.NoError(t, err)
	assert.Equal(t, domain.Cost(0), cost)
}

func TestSpliceBridgerRejectsBeyondGap(t *testing.T) {
	b, err := NewSpliceBridger("bridge", SpliceBridgerConfig{MaxGap: 1})
	require.NoError(t, err)

	cost, comment, err := b.Bridge("cat", "dog")
	require.NoError(t, err, "a rejected pair is not a fault")
	assert.True(t, cost.IsFailure())
	assert.Contains(t, comment, "gap limit is 1")
}

func TestSpliceBridgerZeroGapRequiresExactMatch(t *testing.T) {
	b, err := NewSpliceBridger("bridge", SpliceBridgerConfig{})
	require.NoError(t, err)

	cost, _, err := b.Bridge("cat", "cat")
	require.NoError(t, err)
	assert.Equal(t, domain.Cost(0), cost)

	cost, _, err = b.Bridge("cat", "cot")
	require.NoError(t, err)
	assert.True(t, cost.IsFailure())
}

func TestSpliceBridgerCaseFolding(t *testing.T) {
	b, err := NewSpliceBridger("bridge", SpliceBridgerConfig{})
	require.NoError(t, err)

	cost, _, err := b.Bridge("CAT", "cat")
	require.NoError(t, err)
	assert.Equal(t, domain.Cost(0), cost)
}

func TestSpliceBridgerRejectsNonStringPayloads(t *testing.T) {
	b, err := NewSpliceBridger("bridge", SpliceBridgerConfig{MaxGap: 1})
	require.NoError(t, err)

	_, _, err = b.Bridge(42, "cat")
	assert.ErrorIs(t, err, ErrNotAWord)
	_, _, err = b.Bridge("cat", 42)
	assert.ErrorIs(t, err, ErrNotAWord)
}

func TestSpliceBridgerConstruction(t *testing.T) {
	_, err := NewSpliceBridger("", SpliceBridgerConfig{})
	assert.ErrorIs(t, err, ErrEmptyStageName)

	b, err := NewSpliceBridgerFromConfig("bridge", map[string]any{"max_gap": 3})
	require.NoError(t, err)
	assert.Equal(t, 3, b.config.MaxGap)
}
