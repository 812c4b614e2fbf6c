package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolutionLinkStates(t *testing.T) {
	start := NewInterfaceState("a", 0)
	end := NewInterfaceState("b", 1)

	sol := NewSolution(1, "a to b")
	sol.LinkStates(start, end)

	assert.Same(t, start, sol.Start())
	assert.Same(t, end, sol.End())
	require.Len(t, start.Outgoing(), 1)
	require.Len(t, end.Incoming(), 1)
	assert.Same(t, sol, start.Outgoing()[0])
	assert.Same(t, sol, end.Incoming()[0])
}

func TestSolutionLinkStatesTolerates(t *testing.T) {
	t.Run("nil start", func(t *testing.T) {
		end := NewInterfaceState("b", 1)
		sol := NewSolution(1, "spawned")
		sol.LinkStates(nil, end)
		assert.Nil(t, sol.Start())
		assert.Len(t, end.Incoming(), 1)
	})

	t.Run("shared endpoint state", func(t *testing.T) {
		shared := NewInterfaceState("hub", 0)
		a := NewSolution(1, "a")
		b := NewSolution(2, "b")
		a.LinkStates(shared, nil)
		b.LinkStates(shared, nil)
		assert.Len(t, shared.Outgoing(), 2)
	})
}

func TestSolutionIdentity(t *testing.T) {
	a := NewSolution(1, "x")
	b := NewSolution(1, "x")
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNewFailure(t *testing.T) {
	f := NewFailure("dead end")
	assert.True(t, f.IsFailure())
	assert.Equal(t, "dead end", f.Comment())
}

func TestSolutionLess(t *testing.T) {
	cheap := NewSolution(1, "")
	pricey := NewSolution(9, "")
	failed := NewFailure("")

	assert.True(t, SolutionLess(cheap, pricey))
	assert.False(t, SolutionLess(pricey, cheap))
	assert.True(t, SolutionLess(pricey, failed))
	assert.False(t, SolutionLess(failed, cheap))
}
