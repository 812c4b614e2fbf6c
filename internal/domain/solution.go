package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Solution is the immutable record of one completed computation attempt by
// a stage: either a successful candidate link with a finite cost, or a
// failure marker with an infinite cost. Solutions chain across stages
// through their start and end states; a full plan is a path of chained
// solutions from the tree's overall start to its overall end.
type Solution struct {
	// id uniquely identifies this solution across the run.
	id string

	// creator names the stage that produced this solution.
	creator string

	cost    Cost
	comment string

	// start and end are shared, not exclusively owned: a state can
	// terminate multiple solutions.
	start *InterfaceState
	end   *InterfaceState
}

// NewSolution creates a solution record with the given cost and diagnostic
// comment. A failure cost marks the attempt as failed.
func NewSolution(cost Cost, comment string) *Solution {
	return &Solution{id: uuid.NewString(), cost: cost, comment: comment}
}

// NewFailure creates a failure record with the given diagnostic comment.
func NewFailure(comment string) *Solution {
	return NewSolution(Failure(), comment)
}

// ID returns the unique identifier of this solution.
func (s *Solution) ID() string { return s.id }

// Creator returns the name of the stage that produced this solution.
func (s *Solution) Creator() string { return s.creator }

// Cost returns the scalar cost of this computation attempt.
func (s *Solution) Cost() Cost { return s.cost }

// Comment returns the human-readable diagnostic comment.
func (s *Solution) Comment() string { return s.comment }

// IsFailure reports whether this record marks a failed attempt.
func (s *Solution) IsFailure() bool { return s.cost.IsFailure() }

// Start returns the state this solution departs from, or nil for
// solutions spawned without a predecessor.
func (s *Solution) Start() *InterfaceState { return s.start }

// End returns the state this solution arrives at.
func (s *Solution) End() *InterfaceState { return s.end }

// SetCreator records the producing stage's name. Called once by the stage
// kernel when the solution is stored; external code must not call it.
func (s *Solution) SetCreator(name string) { s.creator = name }

// LinkStates records the causal link between this solution and its
// endpoint states, registering the solution as outgoing on the start state
// and incoming on the end state. Either state may be nil. Called once by
// the stage kernel; external code must not call it.
func (s *Solution) LinkStates(start, end *InterfaceState) {
	s.start = start
	s.end = end
	if start != nil {
		start.addOutgoing(s)
	}
	if end != nil {
		end.addIncoming(s)
	}
}

// String returns a human-readable representation for diagnostics.
func (s *Solution) String() string {
	if s.IsFailure() {
		return fmt.Sprintf("failure(%s: %s)", s.creator, s.comment)
	}
	return fmt.Sprintf("solution(%s: cost=%s)", s.creator, s.cost)
}

// SolutionLess orders solutions by ascending cost for the per-stage
// solution list; failures sort last.
func SolutionLess(a, b *Solution) bool {
	if a.IsFailure() != b.IsFailure() {
		return !a.IsFailure()
	}
	return a.cost < b.cost
}
