package domain

import "fmt"

// Direction tags the flow of candidate states through an Interface.
// Forward means states flow toward increasing plan progress; Backward is
// the mirror. The tag is fixed at Interface construction and never mutated.
type Direction int

const (
	// Forward flows candidate states toward the end of the plan.
	Forward Direction = iota

	// Backward flows candidate states toward the start of the plan.
	Backward
)

// Opposite returns the mirrored direction.
func (d Direction) Opposite() Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}

// String returns a human-readable representation of the direction.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// InterfaceState is one planning-state candidate flowing between stages.
// The payload is opaque to the kernel: it is never inspected, only its
// priority and identity matter. Once inserted into an Interface the state
// is immutable; removal from the Interface is the only lifecycle mutation.
//
// A state may be referenced by multiple solutions (a chain fans in and out
// at shared states); the garbage collector provides the shared ownership
// the design calls for.
type InterfaceState struct {
	payload  any
	priority Priority

	// owner backs removal support only; traversal logic never follows it.
	owner *Interface
	elem  *Element[*InterfaceState]

	incoming []*Solution
	outgoing []*Solution
}

// NewInterfaceState creates a candidate state at depth zero with the given
// cost. Use NewInterfaceStateWithPriority for derived states that carry
// accumulated depth.
func NewInterfaceState(payload any, cost Cost) *InterfaceState {
	return &InterfaceState{payload: payload, priority: NewPriority(cost)}
}

// NewInterfaceStateWithPriority creates a candidate state with an explicit
// priority, typically derived from a predecessor via Priority.Extend.
func NewInterfaceStateWithPriority(payload any, priority Priority) *InterfaceState {
	return &InterfaceState{payload: payload, priority: priority}
}

// Payload returns the opaque planning-state payload.
func (s *InterfaceState) Payload() any { return s.payload }

// Priority returns the state's accumulated cost and tie-break depth.
func (s *InterfaceState) Priority() Priority { return s.priority }

// Owner returns the Interface currently holding this state, or nil if the
// state is detached.
func (s *InterfaceState) Owner() *Interface { return s.owner }

// Incoming returns the solutions terminating at this state.
func (s *InterfaceState) Incoming() []*Solution { return s.incoming }

// Outgoing returns the solutions originating at this state.
func (s *InterfaceState) Outgoing() []*Solution { return s.outgoing }

func (s *InterfaceState) addIncoming(sol *Solution) { s.incoming = append(s.incoming, sol) }
func (s *InterfaceState) addOutgoing(sol *Solution) { s.outgoing = append(s.outgoing, sol) }

// String returns a human-readable representation for diagnostics.
func (s *InterfaceState) String() string {
	return fmt.Sprintf("state%s", s.priority)
}
