package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostFailure(t *testing.T) {
	tests := []struct {
		name    string
		cost    Cost
		failure bool
	}{
		{"zero", 0, false},
		{"finite", 42.5, false},
		{"negative", -1, false},
		{"positive infinity", Failure(), true},
		{"negative infinity", Cost(math.Inf(-1)), true},
		{"nan", Cost(math.NaN()), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.failure, tt.cost.IsFailure())
		})
	}
}

func TestCostAdd(t *testing.T) {
	t.Run("finite operands accumulate", func(t *testing.T) {
		assert.Equal(t, Cost(7), Cost(3).Add(4))
	})

	t.Run("failure absorbs on either side", func(t *testing.T) {
		assert.True(t, Failure().Add(1).IsFailure())
		assert.True(t, Cost(1).Add(Failure()).IsFailure())
	})

	t.Run("nan does not leak back into finite costs", func(t *testing.T) {
		assert.True(t, Cost(math.NaN()).Add(0).IsFailure())
	})
}

func TestPriorityLess(t *testing.T) {
	tests := []struct {
		name string
		a, b Priority
		want bool
	}{
		{"cheaper first", NewPriority(1), NewPriority(2), true},
		{"more expensive later", NewPriority(2), NewPriority(1), false},
		{"equal cost deeper first", Priority{Depth: 3, Cost: 5}, Priority{Depth: 1, Cost: 5}, true},
		{"equal cost shallower later", Priority{Depth: 1, Cost: 5}, Priority{Depth: 3, Cost: 5}, false},
		{"identical not less", NewPriority(5), NewPriority(5), false},
		{"non-failed before failed", NewPriority(1e9), NewPriority(Failure()), true},
		{"failed after non-failed", NewPriority(Failure()), NewPriority(0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Less(tt.b))
		})
	}
}

func TestPriorityExtend(t *testing.T) {
	t.Run("accumulates cost and depth", func(t *testing.T) {
		p := NewPriority(2).Extend(3)
		assert.Equal(t, uint32(1), p.Depth)
		assert.Equal(t, Cost(5), p.Cost)

		p = p.Extend(1)
		assert.Equal(t, uint32(2), p.Depth)
		assert.Equal(t, Cost(6), p.Cost)
	})

	t.Run("failure increment poisons the chain", func(t *testing.T) {
		p := NewPriority(2).Extend(Failure())
		assert.True(t, p.IsFailure())
	})
}
