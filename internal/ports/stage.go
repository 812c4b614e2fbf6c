// Package ports defines the core interfaces that form the contract between
// the scheduling kernel and the domain-specific computations plugged into
// it. These interfaces enable dependency inversion and make the system
// testable without any concrete planning algorithm.
package ports

import (
	"strings"

	"github.com/ahrav/go-taskgraph/internal/domain"
)

// InterfaceFlags declares which interface directions a stage reads from
// and writes to. The zero value means "unknown": the stage's effective
// shape is auto-detected from its neighbors and only well-defined after
// the tree has been wired and validated.
type InterfaceFlags uint8

const (
	// ReadsStart marks a stage that pulls candidate states from its
	// start-side interface (accepts forward input).
	ReadsStart InterfaceFlags = 1 << iota

	// ReadsEnd marks a stage that pulls candidate states from its
	// end-side interface (accepts backward input).
	ReadsEnd

	// WritesNextStart marks a stage that pushes states into the next
	// neighbor's start-side interface (produces forward output).
	WritesNextStart

	// WritesPrevEnd marks a stage that pushes states into the previous
	// neighbor's end-side interface (produces backward output).
	WritesPrevEnd
)

// Composite shapes of the built-in stage kinds.
const (
	// UnknownInterface means the shape is auto-detected after wiring.
	UnknownInterface InterfaceFlags = 0

	// PropagatesForward pulls start states and pushes derived states onward.
	PropagatesForward = ReadsStart | WritesNextStart

	// PropagatesBackward pulls end states and pushes derived states back.
	PropagatesBackward = ReadsEnd | WritesPrevEnd

	// GeneratesBothWays spawns fresh states into both directions at once.
	GeneratesBothWays = WritesNextStart | WritesPrevEnd

	// ConnectsBothSides pulls from both sides without producing new states.
	ConnectsBothSides = ReadsStart | ReadsEnd
)

// Has reports whether all bits of other are set.
func (f InterfaceFlags) Has(other InterfaceFlags) bool { return f&other == other }

// Unknown reports whether the shape is still auto-detected.
func (f InterfaceFlags) Unknown() bool { return f == UnknownInterface }

// String returns a human-readable representation of the flags.
func (f InterfaceFlags) String() string {
	if f.Unknown() {
		return "unknown"
	}
	var parts []string
	if f.Has(ReadsStart) {
		parts = append(parts, "reads-start")
	}
	if f.Has(ReadsEnd) {
		parts = append(parts, "reads-end")
	}
	if f.Has(WritesNextStart) {
		parts = append(parts, "writes-next-start")
	}
	if f.Has(WritesPrevEnd) {
		parts = append(parts, "writes-prev-end")
	}
	return strings.Join(parts, "|")
}

// SolutionCallback observes every solution accepted by a stage. Callbacks
// run synchronously on the scheduler goroutine and must not mutate the
// tree structure; reentrancy into the scheduler is disallowed.
type SolutionCallback func(s *domain.Solution)

// Inspector receives the kernel's diagnostic stream. Attaching an
// inspector to a stage switches failure handling from count-only to
// full retention.
type Inspector interface {
	// SolutionAccepted is called for every solution stored by a stage.
	SolutionAccepted(s *domain.Solution)

	// FailureRecorded is called for every retained failure record.
	FailureRecorded(s *domain.Solution)
}

// Stage is one computation node of the task tree and the unit of
// scheduling. CanCompute and Compute are synchronous, non-blocking calls
// driven by a single scheduler goroutine; a stage must never wait inside
// Compute for another stage's future action.
type Stage interface {
	// Name returns the stage's human-readable identifier, used for
	// diagnostics and configuration.
	Name() string

	// Properties returns the stage's opaque configuration bag, read-only
	// from the kernel's perspective during a run.
	Properties() *domain.PropertyBag

	// RequiredInterface declares which directions this stage needs.
	// It returns UnknownInterface when the shape is auto-detected from
	// neighbors, which is only resolvable after wiring.
	RequiredInterface() InterfaceFlags

	// PruneInterface narrows an either-way stage's capability to the
	// directions actually used once the tree shape forces a decision.
	// The default implementation is a no-op.
	PruneInterface(accepted InterfaceFlags)

	// CurrentInterface reports the actually configured shape derived from
	// the existing pull queues and wired push targets. It is only
	// well-defined after the tree has been wired.
	CurrentInterface() InterfaceFlags

	// ValidateConnectivity reports a configuration error if the wired
	// neighbors cannot satisfy RequiredInterface. It never panics into
	// the scheduler loop.
	ValidateConnectivity() error

	// CanCompute is a cheap, side-effect-free eligibility predicate.
	CanCompute() bool

	// Compute performs exactly one computation attempt. It may push zero,
	// one, or multiple new states and solutions into neighboring
	// interfaces and must not assume it will be immediately re-invoked.
	Compute() error

	// Pull returns the stage's owned pull interface for the given
	// direction, or nil if the stage does not pull from that direction.
	Pull(dir domain.Direction) *domain.Interface

	// Push returns the stage's non-owning push target for the given
	// direction, or nil if none is wired or the owner was torn down.
	Push(dir domain.Direction) *domain.Interface

	// SetPush wires the push target for the given direction. Containers
	// call this while arranging their children; passing nil detaches the
	// target, after which pushes in that direction become counted no-ops.
	SetPush(dir domain.Direction, iface *domain.Interface)

	// SetHierarchy records the stage's parent and stable position among
	// its siblings. Only containers call this.
	SetHierarchy(parent Stage, index int)

	// Parent returns the containing stage, or nil for a root.
	Parent() Stage

	// Index returns the stage's stable position among its siblings.
	Index() int

	// AddSolutionCallback registers an observer notified on every
	// accepted solution. The returned function removes the registration;
	// calling it repeatedly is safe.
	AddSolutionCallback(cb SolutionCallback) (remove func())

	// Solutions returns the stage's accepted solutions in ascending cost
	// order.
	Solutions() []*domain.Solution

	// Failures returns the retained failure records. Without an attached
	// inspector failures are only counted and this returns nil.
	Failures() []*domain.Solution

	// FailureCount returns the number of failed computation attempts,
	// whether or not the records were retained.
	FailureCount() int

	// SetInspector attaches the diagnostic stream, enabling failure
	// retention. Passing nil detaches it.
	SetInspector(insp Inspector)
}

// Container is a structural stage that owns the sibling ordering of its
// children, wires their interfaces together, and validates the result.
// The kernel prescribes only this wiring contract; how a container
// schedules among its children is a policy layered on top.
type Container interface {
	Stage

	// Add appends a child stage, assigning its position. It fails if the
	// child is nil or its name collides with an existing child.
	Add(child Stage) error

	// Children returns the ordered child list. The returned slice must
	// not be modified.
	Children() []Stage

	// Wire resolves auto-detected directions, connects each child's push
	// interfaces to its neighbors' pull interfaces, and validates the
	// result. It must be called (typically through a Task) before any
	// scheduling happens.
	Wire() error
}
