// Package domain contains the pure data structures of the task-graph
// kernel: costs and priorities, candidate states, the directional queues
// that carry them between stages, and the solution records that chain
// them into plans. Nothing in this package performs I/O or scheduling.
package domain

import (
	"fmt"
	"math"
)

// Cost is the scalar quality measure attached to states and solutions.
// Lower is better. An infinite (or NaN) cost marks a failed computation
// attempt; failure is absorbing under accumulation.
type Cost float64

// Failure returns the cost value marking a failed attempt.
func Failure() Cost { return Cost(math.Inf(1)) }

// IsFailure reports whether c marks a failed attempt. Both infinities and
// NaN count as failure so that arithmetic on corrupted costs can never
// smuggle a "valid" candidate back into scheduling.
func (c Cost) IsFailure() bool {
	f := float64(c)
	return math.IsInf(f, 0) || math.IsNaN(f)
}

// Add accumulates two costs. Failure absorbs: if either operand is a
// failure the result is a failure.
func (c Cost) Add(other Cost) Cost {
	if c.IsFailure() || other.IsFailure() {
		return Failure()
	}
	return c + other
}

// String returns a human-readable representation.
func (c Cost) String() string {
	if c.IsFailure() {
		return "failure"
	}
	return fmt.Sprintf("%g", float64(c))
}

// Priority orders candidate states for scheduling. Comparison is by
// ascending cost first; among equal costs, deeper states win so that
// chains already close to completion are finished before new ones are
// opened. Failed priorities always sort after non-failed ones.
type Priority struct {
	// Depth counts how many derivation steps produced this state.
	Depth uint32

	// Cost is the accumulated cost along the derivation chain.
	Cost Cost
}

// NewPriority creates a depth-zero priority with the given cost.
func NewPriority(cost Cost) Priority {
	return Priority{Cost: cost}
}

// Less reports whether p orders strictly before other: non-failed before
// failed, then cheaper first, then deeper first.
func (p Priority) Less(other Priority) bool {
	if p.Cost.IsFailure() != other.Cost.IsFailure() {
		return !p.Cost.IsFailure()
	}
	if p.Cost != other.Cost {
		return p.Cost < other.Cost
	}
	return p.Depth > other.Depth
}

// Extend derives the priority of a successor state: one step deeper, with
// the increment accumulated onto the cost. Failure increments produce a
// failed priority.
func (p Priority) Extend(increment Cost) Priority {
	return Priority{Depth: p.Depth + 1, Cost: p.Cost.Add(increment)}
}

// IsFailure reports whether the priority marks a failed candidate.
func (p Priority) IsFailure() bool { return p.Cost.IsFailure() }

// String returns a human-readable representation.
func (p Priority) String() string {
	return fmt.Sprintf("(depth=%d cost=%s)", p.Depth, p.Cost)
}
