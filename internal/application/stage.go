// Package application implements the task-graph scheduling kernel: the
// stage kinds, their connecting interfaces, container wiring, and the
// cooperative scheduler loop that drives them.
//
// The whole kernel is mutated by exactly one scheduler goroutine, so no
// internal locking is required. Hosts feeding asynchronous input must
// marshal it onto the scheduler goroutine through their own handoff queue
// before touching any kernel structure.
package application

import (
	"github.com/ahrav/go-taskgraph/internal/domain"
	"github.com/ahrav/go-taskgraph/internal/ports"
)

// stageCore carries the bookkeeping shared by every stage kind: the owned
// pull interfaces, the non-owning push references, the cost-ordered
// solution list, failure accounting, and the solution-callback registry.
// Concrete stage types embed it and contribute RequiredInterface,
// CanCompute, and Compute.
type stageCore struct {
	name  string
	props *domain.PropertyBag

	parent ports.Stage
	index  int

	// starts and ends are the owned pull queues; nil when the stage kind
	// does not pull from that side.
	starts *domain.Interface
	ends   *domain.Interface

	// nextStarts and prevEnds are non-owning push targets wired by the
	// container. Either may be nil (or become nil when a neighbor is torn
	// down); pushing then degrades to a counted no-op.
	nextStarts *domain.Interface
	prevEnds   *domain.Interface

	solutions *domain.Ordered[*domain.Solution]

	// failures is populated only while an inspector is attached;
	// otherwise failed attempts are merely counted.
	failures     []*domain.Solution
	failureCount int

	callbacks []ports.SolutionCallback

	inspector ports.Inspector

	// droppedPushes counts pushes that hit a torn-down neighbor queue.
	droppedPushes int
}

func newStageCore(name string) *stageCore {
	return &stageCore{
		name:      name,
		props:     domain.NewPropertyBag(),
		index:     -1,
		solutions: domain.NewOrdered(domain.SolutionLess),
	}
}

// Name returns the stage's human-readable identifier.
func (c *stageCore) Name() string { return c.name }

// Properties returns the stage's opaque configuration bag.
func (c *stageCore) Properties() *domain.PropertyBag { return c.props }

// PruneInterface narrows an either-way stage to the accepted directions.
// The default implementation is a no-op.
func (c *stageCore) PruneInterface(ports.InterfaceFlags) {}

// Pull returns the owned pull interface for the given direction.
func (c *stageCore) Pull(dir domain.Direction) *domain.Interface {
	if dir == domain.Forward {
		return c.starts
	}
	return c.ends
}

// Push returns the wired push target for the given direction, or nil if
// none is wired or its owner was torn down.
func (c *stageCore) Push(dir domain.Direction) *domain.Interface {
	if dir == domain.Forward {
		return c.nextStarts
	}
	return c.prevEnds
}

// SetPush wires the push target for the given direction.
func (c *stageCore) SetPush(dir domain.Direction, iface *domain.Interface) {
	if dir == domain.Forward {
		c.nextStarts = iface
	} else {
		c.prevEnds = iface
	}
}

// SetHierarchy records the stage's parent and sibling position.
func (c *stageCore) SetHierarchy(parent ports.Stage, index int) {
	c.parent = parent
	c.index = index
}

// Parent returns the containing stage, or nil for a root.
func (c *stageCore) Parent() ports.Stage { return c.parent }

// Index returns the stage's stable position among its siblings.
func (c *stageCore) Index() int { return c.index }

// AddSolutionCallback registers an observer notified on every accepted
// solution. The returned function removes the registration; calling it
// repeatedly is safe.
func (c *stageCore) AddSolutionCallback(cb ports.SolutionCallback) (remove func()) {
	idx := len(c.callbacks)
	c.callbacks = append(c.callbacks, cb)
	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		c.callbacks[idx] = nil
	}
}

// Solutions returns the accepted solutions in ascending cost order.
func (c *stageCore) Solutions() []*domain.Solution { return c.solutions.Values() }

// Failures returns the retained failure records, or nil when failures are
// only counted.
func (c *stageCore) Failures() []*domain.Solution { return c.failures }

// FailureCount returns the number of failed computation attempts.
func (c *stageCore) FailureCount() int { return c.failureCount }

// SetInspector attaches the diagnostic stream. While attached, failed
// attempts are retained instead of merely counted.
func (c *stageCore) SetInspector(insp ports.Inspector) { c.inspector = insp }

// DroppedPushes returns how many pushes hit a torn-down neighbor queue.
func (c *stageCore) DroppedPushes() int { return c.droppedPushes }

// storeFailures reports whether failed attempts are retained.
func (c *stageCore) storeFailures() bool { return c.inspector != nil }

// storeSolution records one computation attempt. Accepted solutions enter
// the cost-ordered solution list and are announced to every registered
// callback; failures bump the failure count and are retained only while
// an inspector is attached. It returns whether the solution was accepted.
func (c *stageCore) storeSolution(sol *domain.Solution) bool {
	sol.SetCreator(c.name)

	if sol.IsFailure() {
		c.failureCount++
		if c.storeFailures() {
			c.failures = append(c.failures, sol)
			c.inspector.FailureRecorded(sol)
		}
		return false
	}

	c.solutions.Insert(sol)
	for _, cb := range c.callbacks {
		if cb != nil {
			cb(sol)
		}
	}
	if c.inspector != nil {
		c.inspector.SolutionAccepted(sol)
	}
	return true
}

// push adds a state to the wired push target for dir. A missing target
// (neighbor torn down, or stage at the tree boundary without a sink) makes
// the push a counted no-op rather than a fault.
func (c *stageCore) push(dir domain.Direction, s *domain.InterfaceState) {
	target := c.Push(dir)
	if target == nil {
		c.droppedPushes++
		return
	}
	// Add only fails for nil or already-queued states, which the send
	// helpers never produce.
	if err := target.Add(s); err != nil {
		c.droppedPushes++
	}
}

// sendForward attaches the derived state to the forward direction,
// recording the causal link to its predecessor through sol. Failed
// solutions are recorded but the state is not pushed.
func (c *stageCore) sendForward(from, to *domain.InterfaceState, sol *domain.Solution) {
	sol.LinkStates(from, to)
	if !c.storeSolution(sol) {
		return
	}
	c.push(domain.Forward, to)
}

// sendBackward attaches the derived state to the backward direction.
// from is the freshly derived state extending the chain backward; to is
// the pulled predecessor.
func (c *stageCore) sendBackward(from, to *domain.InterfaceState, sol *domain.Solution) {
	sol.LinkStates(from, to)
	if !c.storeSolution(sol) {
		return
	}
	c.push(domain.Backward, from)
}

// spawn attaches a freshly invented state (no predecessor) to both the
// forward and backward directions simultaneously. Two sibling copies of
// the state are created so that each direction's queue owns its own entry.
func (c *stageCore) spawn(state *domain.InterfaceState, sol *domain.Solution) {
	backward := domain.NewInterfaceStateWithPriority(state.Payload(), state.Priority())
	forward := domain.NewInterfaceStateWithPriority(state.Payload(), state.Priority())

	sol.LinkStates(backward, forward)
	if !c.storeSolution(sol) {
		return
	}
	c.push(domain.Backward, backward)
	c.push(domain.Forward, forward)
}

// connect records a solution bridging two pre-existing states without
// creating a new one.
func (c *stageCore) connect(from, to *domain.InterfaceState, sol *domain.Solution) {
	sol.LinkStates(from, to)
	c.storeSolution(sol)
}

// CurrentInterface reports the wiring-derived shape of the stage: which
// pull queues exist and which push targets are wired. Only well-defined
// after the tree has been wired.
func (c *stageCore) CurrentInterface() ports.InterfaceFlags { return c.actualInterface() }

// actualInterface reports the wiring-derived shape of the stage: which
// pull queues exist and which push targets are wired.
func (c *stageCore) actualInterface() ports.InterfaceFlags {
	var f ports.InterfaceFlags
	if c.starts != nil {
		f |= ports.ReadsStart
	}
	if c.ends != nil {
		f |= ports.ReadsEnd
	}
	if c.nextStarts != nil {
		f |= ports.WritesNextStart
	}
	if c.prevEnds != nil {
		f |= ports.WritesPrevEnd
	}
	return f
}

// validateRequired checks the wired shape against required, collecting
// violations into a structured report instead of panicking into the
// scheduler loop.
func (c *stageCore) validateRequired(required ports.InterfaceFlags) error {
	report := domain.NewConnectivityError(c.name)
	actual := c.actualInterface()

	if required.Has(ports.ReadsStart) && !actual.Has(ports.ReadsStart) {
		report.Add("requires forward input but owns no start-side pull interface")
	}
	if required.Has(ports.ReadsEnd) && !actual.Has(ports.ReadsEnd) {
		report.Add("requires backward input but owns no end-side pull interface")
	}
	if required.Has(ports.WritesNextStart) && !actual.Has(ports.WritesNextStart) {
		report.Add("produces forward output but no downstream neighbor is wired")
	}
	if required.Has(ports.WritesPrevEnd) && !actual.Has(ports.WritesPrevEnd) {
		report.Add("produces backward output but no upstream neighbor is wired")
	}

	return report.OrNil()
}
