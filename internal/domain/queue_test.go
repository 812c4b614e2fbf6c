package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterfaceAddKeepsPriorityOrder(t *testing.T) {
	iface := NewInterface(Forward)

	s5 := NewInterfaceState("e", 5)
	s1 := NewInterfaceState("a", 1)
	s3 := NewInterfaceState("c", 3)
	for _, s := range []*InterfaceState{s5, s1, s3} {
		require.NoError(t, iface.Add(s))
	}

	got := iface.States()
	require.Len(t, got, 3)
	assert.Equal(t, []*InterfaceState{s1, s3, s5}, got)
	assert.Same(t, s1, iface.First())
}

func TestInterfaceAddRejectsBadStates(t *testing.T) {
	iface := NewInterface(Forward)

	t.Run("nil state", func(t *testing.T) {
		assert.ErrorIs(t, iface.Add(nil), ErrNilState)
	})

	t.Run("already queued state", func(t *testing.T) {
		s := NewInterfaceState("a", 1)
		require.NoError(t, iface.Add(s))

		other := NewInterface(Backward)
		assert.ErrorIs(t, other.Add(s), ErrStateOwned)
		assert.ErrorIs(t, iface.Add(s), ErrStateOwned)
	})
}

func TestInterfaceRemove(t *testing.T) {
	iface := NewInterface(Forward)
	s := NewInterfaceState("a", 1)
	require.NoError(t, iface.Add(s))
	require.Same(t, iface, s.Owner())

	iface.Remove(s)
	assert.Nil(t, s.Owner())
	assert.Equal(t, 0, iface.Len())

	// A removed state can be re-queued elsewhere.
	other := NewInterface(Backward)
	require.NoError(t, other.Add(s))

	// Removing a state held by another interface is a no-op.
	iface.Remove(s)
	assert.Same(t, other, s.Owner())
}

func TestInterfacePopFirst(t *testing.T) {
	iface := NewInterface(Forward)
	require.NoError(t, iface.Add(NewInterfaceState("b", 2)))
	require.NoError(t, iface.Add(NewInterfaceState("a", 1)))

	first := iface.PopFirst()
	require.NotNil(t, first)
	assert.Equal(t, "a", first.Payload())
	assert.Nil(t, first.Owner())
	assert.Equal(t, 1, iface.Len())

	iface.PopFirst()
	assert.Nil(t, iface.PopFirst())
}

func TestInterfaceObserve(t *testing.T) {
	iface := NewInterface(Forward)

	var seen []string
	remove := iface.Observe(func(s *InterfaceState) {
		seen = append(seen, s.Payload().(string))
	})

	require.NoError(t, iface.Add(NewInterfaceState("a", 1)))
	require.NoError(t, iface.Add(NewInterfaceState("b", 2)))
	assert.Equal(t, []string{"a", "b"}, seen)

	remove()
	remove() // repeated removal is safe
	require.NoError(t, iface.Add(NewInterfaceState("c", 3)))
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestDirectionOpposite(t *testing.T) {
	assert.Equal(t, Backward, Forward.Opposite())
	assert.Equal(t, Forward, Backward.Opposite())
	assert.Equal(t, "forward", Forward.String())
	assert.Equal(t, "backward", Backward.String())
}
