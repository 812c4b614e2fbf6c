package application

import (
	"fmt"

	"github.com/ahrav/go-taskgraph/internal/domain"
	"github.com/ahrav/go-taskgraph/internal/ports"
)

// Compile-time check that SerialContainer satisfies the container contract.
var _ ports.Container = (*SerialContainer)(nil)

// SerialContainer arranges its children in a chain: each child's forward
// push feeds the next child's start-side pull queue and each child's
// backward push feeds the previous child's end-side pull queue. The
// container owns the sibling ordering and the wiring; its compute policy
// (run the first eligible child in tree order) is a peripheral layer on
// top of that wiring contract.
type SerialContainer struct {
	*stageCore

	children   []ports.Stage
	childNames map[string]struct{}
	wired      bool
}

// NewSerialContainer creates an empty serial container.
func NewSerialContainer(name string) *SerialContainer {
	return &SerialContainer{
		stageCore:  newStageCore(name),
		childNames: make(map[string]struct{}),
	}
}

// Add appends a child stage, assigning its stable position among the
// siblings. It fails if the child is nil or its name collides with an
// existing child.
func (sc *SerialContainer) Add(child ports.Stage) error {
	if child == nil {
		return fmt.Errorf("%w: cannot add nil stage to container %q", domain.ErrInvalidConfiguration, sc.name)
	}
	if _, exists := sc.childNames[child.Name()]; exists {
		return fmt.Errorf("%w: stage %q already exists in container %q",
			domain.ErrInvalidConfiguration, child.Name(), sc.name)
	}

	child.SetHierarchy(sc, len(sc.children))
	sc.children = append(sc.children, child)
	sc.childNames[child.Name()] = struct{}{}
	return nil
}

// Children returns the ordered child list. The returned slice must not be
// modified.
func (sc *SerialContainer) Children() []ports.Stage { return sc.children }

// RequiredInterface is auto-detected: a serial container's shape is
// whatever its boundary children require of the outside world.
func (sc *SerialContainer) RequiredInterface() ports.InterfaceFlags {
	return ports.UnknownInterface
}

// CurrentInterface composes the container's shape from its boundary
// children: the first child faces the outside on the start side, the last
// child on the end side.
func (sc *SerialContainer) CurrentInterface() ports.InterfaceFlags {
	if len(sc.children) == 0 {
		return ports.UnknownInterface
	}
	var f ports.InterfaceFlags
	first, last := sc.children[0], sc.children[len(sc.children)-1]
	f |= first.CurrentInterface() & (ports.ReadsStart | ports.WritesPrevEnd)
	f |= last.CurrentInterface() & (ports.ReadsEnd | ports.WritesNextStart)
	return f
}

// Pull delegates to the boundary children: the container's start-side pull
// queue is its first child's, the end-side pull queue its last child's.
func (sc *SerialContainer) Pull(dir domain.Direction) *domain.Interface {
	if len(sc.children) == 0 {
		return nil
	}
	if dir == domain.Forward {
		return sc.children[0].Pull(domain.Forward)
	}
	return sc.children[len(sc.children)-1].Pull(domain.Backward)
}

// Wire resolves auto-detected directions, connects each child's push
// interfaces to its neighbors' pull interfaces, recursively wires nested
// containers, and seeds child properties from the container's bag.
// It must run before validation or scheduling; external push targets
// (SetPush) must be set beforehand.
func (sc *SerialContainer) Wire() error {
	if len(sc.children) == 0 {
		report := domain.NewConnectivityError(sc.name)
		report.Add("container has no children")
		return report
	}

	for i, child := range sc.children {
		child.SetHierarchy(sc, i)
		child.Properties().FillFrom(sc.props)
	}

	sc.pruneAutoStages()

	// Connect pushes: child i feeds forward into child i+1's start queue
	// and backward into child i-1's end queue. Boundary children feed the
	// container's own external push targets, which may legitimately be
	// nil for a root container's unused side.
	last := len(sc.children) - 1
	for i, child := range sc.children {
		if i < last {
			child.SetPush(domain.Forward, sc.children[i+1].Pull(domain.Forward))
		} else {
			child.SetPush(domain.Forward, sc.nextStarts)
		}
		if i > 0 {
			child.SetPush(domain.Backward, sc.children[i-1].Pull(domain.Backward))
		} else {
			child.SetPush(domain.Backward, sc.prevEnds)
		}
	}

	for _, child := range sc.children {
		if nested, ok := child.(ports.Container); ok {
			if err := nested.Wire(); err != nil {
				return err
			}
		}
	}

	sc.wired = true
	return nil
}

// pruneAutoStages resolves auto-detected directions with a fixpoint pass:
// a stage with unknown shape accepts forward flow when some preceding
// neighbor produces it and backward flow when some following neighbor
// produces it. Explicit three-state flags, resolved in one dedicated pass
// rather than inferred ad hoc at call sites.
func (sc *SerialContainer) pruneAutoStages() {
	effective := make([]ports.InterfaceFlags, len(sc.children))
	for i, child := range sc.children {
		effective[i] = child.RequiredInterface()
	}

	for changed := true; changed; {
		changed = false
		for i, flags := range effective {
			if !flags.Unknown() {
				continue
			}
			var accepted ports.InterfaceFlags
			if i > 0 && effective[i-1].Has(ports.WritesNextStart) {
				accepted |= ports.PropagatesForward
			}
			if i < len(effective)-1 && effective[i+1].Has(ports.WritesPrevEnd) {
				accepted |= ports.PropagatesBackward
			}
			if !accepted.Unknown() {
				effective[i] = accepted
				changed = true
			}
		}
	}

	for i, child := range sc.children {
		if child.RequiredInterface().Unknown() && !effective[i].Unknown() {
			child.PruneInterface(effective[i])
		}
	}
}

// ValidateConnectivity checks every adjacent pair for a compatible, live
// boundary and aggregates each child's own validation into one structured
// report. The tree stays inert until the report is empty.
func (sc *SerialContainer) ValidateConnectivity() error {
	report := domain.NewConnectivityError(sc.name)

	if !sc.wired {
		report.Add("container has not been wired")
		return report
	}

	for i := 0; i+1 < len(sc.children); i++ {
		a, b := sc.children[i], sc.children[i+1]
		af, bf := effectiveFlags(a), effectiveFlags(b)

		forwardFlow := af.Has(ports.WritesNextStart) && bf.Has(ports.ReadsStart)
		backwardFlow := bf.Has(ports.WritesPrevEnd) && af.Has(ports.ReadsEnd)

		if af.Has(ports.WritesNextStart) && !bf.Has(ports.ReadsStart) {
			report.Add("stage %q pushes forward but %q does not accept forward input", a.Name(), b.Name())
		}
		if bf.Has(ports.ReadsStart) && !af.Has(ports.WritesNextStart) {
			report.Add("stage %q requires forward input but %q does not produce it", b.Name(), a.Name())
		}
		if bf.Has(ports.WritesPrevEnd) && !af.Has(ports.ReadsEnd) {
			report.Add("stage %q pushes backward but %q does not accept backward input", b.Name(), a.Name())
		}
		if af.Has(ports.ReadsEnd) && !bf.Has(ports.WritesPrevEnd) {
			report.Add("stage %q requires backward input but %q does not produce it", a.Name(), b.Name())
		}
		if !forwardFlow && !backwardFlow && !report.HasProblems() {
			report.Add("no state flow across the boundary between %q and %q", a.Name(), b.Name())
		}
	}

	for _, child := range sc.children {
		report.Merge(child.ValidateConnectivity())
	}

	return report.OrNil()
}

// effectiveFlags resolves a stage's shape for compatibility checks,
// falling back to the wiring-derived shape when the declared requirement
// is still auto-detected.
func effectiveFlags(s ports.Stage) ports.InterfaceFlags {
	if f := s.RequiredInterface(); !f.Unknown() {
		return f
	}
	return s.CurrentInterface()
}

// CanCompute reports whether any child is eligible.
func (sc *SerialContainer) CanCompute() bool {
	for _, child := range sc.children {
		if child.CanCompute() {
			return true
		}
	}
	return false
}

// Compute runs exactly one computation attempt: the first eligible child
// in tree order. Tree order keeps runs reproducible; the kernel contract
// deliberately guarantees no fairness among eligible stages.
func (sc *SerialContainer) Compute() error {
	for _, child := range sc.children {
		if child.CanCompute() {
			return child.Compute()
		}
	}
	return domain.ErrNotComputable
}

// Remove detaches a child from the container, leaving neighbors with a
// torn-down push reference that degrades their pushes to counted no-ops.
// Removing a stage is only legal between scheduler turns, never while it
// is mid-compute.
func (sc *SerialContainer) Remove(child ports.Stage) bool {
	for i, c := range sc.children {
		if c != child {
			continue
		}
		sc.children = append(sc.children[:i], sc.children[i+1:]...)
		delete(sc.childNames, child.Name())
		child.SetHierarchy(nil, -1)

		// Detach neighbors' references into the removed stage so their
		// subsequent pushes are safe no-ops rather than faults.
		if i > 0 {
			sc.children[i-1].SetPush(domain.Forward, nil)
		}
		if i < len(sc.children) {
			sc.children[i].SetPush(domain.Backward, nil)
		}
		for j := i; j < len(sc.children); j++ {
			sc.children[j].SetHierarchy(sc, j)
		}
		sc.wired = false
		return true
	}
	return false
}

// SetInspector attaches the diagnostic stream to the container and every
// child, switching the whole subtree to failure retention.
func (sc *SerialContainer) SetInspector(insp ports.Inspector) {
	sc.stageCore.SetInspector(insp)
	for _, child := range sc.children {
		child.SetInspector(insp)
	}
}
