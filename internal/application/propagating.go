package application

import (
	"github.com/ahrav/go-taskgraph/internal/domain"
	"github.com/ahrav/go-taskgraph/internal/ports"
)

// PropagationDirection configures which way a propagating stage extends
// the plan. Auto defers the decision to the container, which prunes the
// stage to the direction the tree shape actually uses.
type PropagationDirection int

const (
	// Auto lets the container detect the direction from the neighbors.
	Auto PropagationDirection = iota

	// ForwardOnly pulls start states and extends the plan forward.
	ForwardOnly

	// BackwardOnly pulls end states and extends the plan backward.
	BackwardOnly
)

// String returns a human-readable representation of the direction config.
func (d PropagationDirection) String() string {
	switch d {
	case Auto:
		return "auto"
	case ForwardOnly:
		return "forward"
	case BackwardOnly:
		return "backward"
	default:
		return "invalid"
	}
}

// Compile-time check that Propagating satisfies the stage contract.
var _ ports.Stage = (*Propagating)(nil)

// Propagating pulls one candidate state from an upstream interface, hands
// it to the domain-specific Propagator, and pushes the successful
// derivations downstream. Derivations with failure cost are dropped from
// propagation: failed branches are recorded (or counted) but never travel
// further through the tree.
type Propagating struct {
	*stageCore

	dir  PropagationDirection
	prop ports.Propagator

	// forward and backward track the directions still enabled; Auto
	// starts with both until the container prunes one away.
	forward, backward bool
}

// NewPropagating creates a propagating stage for the configured direction.
// With Auto, the stage owns pull queues for both directions until the
// container's wiring pass prunes it to the direction actually used.
func NewPropagating(name string, dir PropagationDirection, prop ports.Propagator) *Propagating {
	p := &Propagating{
		stageCore: newStageCore(name),
		dir:       dir,
		prop:      prop,
		forward:   dir == Auto || dir == ForwardOnly,
		backward:  dir == Auto || dir == BackwardOnly,
	}
	p.initInterfaces()
	return p
}

// NewForwardPropagator creates a forward-only propagating stage.
func NewForwardPropagator(name string, prop ports.Propagator) *Propagating {
	return NewPropagating(name, ForwardOnly, prop)
}

// NewBackwardPropagator creates a backward-only propagating stage.
func NewBackwardPropagator(name string, prop ports.Propagator) *Propagating {
	return NewPropagating(name, BackwardOnly, prop)
}

// initInterfaces creates the owned pull queues for the enabled directions.
func (p *Propagating) initInterfaces() {
	if p.forward && p.starts == nil {
		p.starts = domain.NewInterface(domain.Forward)
	}
	if p.backward && p.ends == nil {
		p.ends = domain.NewInterface(domain.Backward)
	}
}

// RequiredInterface declares the configured shape, or unknown when the
// direction is auto-detected from neighbors.
func (p *Propagating) RequiredInterface() ports.InterfaceFlags {
	switch p.dir {
	case ForwardOnly:
		return ports.PropagatesForward
	case BackwardOnly:
		return ports.PropagatesBackward
	default:
		return ports.UnknownInterface
	}
}

// PruneInterface narrows an auto-directed stage to the accepted
// directions, dropping the pull queue of a direction the tree shape
// ruled out. Explicitly configured stages ignore pruning.
func (p *Propagating) PruneInterface(accepted ports.InterfaceFlags) {
	if p.dir != Auto {
		return
	}
	if !accepted.Has(ports.ReadsStart) {
		p.forward = false
		p.starts = nil
	}
	if !accepted.Has(ports.ReadsEnd) {
		p.backward = false
		p.ends = nil
	}
}

// ValidateConnectivity reports a configuration error if the stage cannot
// propagate in at least one enabled direction.
func (p *Propagating) ValidateConnectivity() error {
	report := domain.NewConnectivityError(p.name)

	canForward := p.forward && p.starts != nil && p.nextStarts != nil
	canBackward := p.backward && p.ends != nil && p.prevEnds != nil

	switch p.dir {
	case ForwardOnly:
		if !canForward {
			report.Add("forward propagation requires an upstream source and a downstream neighbor")
		}
	case BackwardOnly:
		if !canBackward {
			report.Add("backward propagation requires a downstream source and an upstream neighbor")
		}
	default:
		if !canForward && !canBackward {
			report.Add("auto-detected direction is ambiguous: cannot propagate in any direction")
		}
	}

	return report.OrNil()
}

// CanCompute reports whether any enabled pull interface holds a candidate.
func (p *Propagating) CanCompute() bool {
	if p.forward && p.starts != nil && !p.starts.Empty() {
		return true
	}
	if p.backward && p.ends != nil && !p.ends.Empty() {
		return true
	}
	return false
}

// Compute pops the best candidate from the enabled pull interfaces and
// propagates it. When both directions hold candidates, the cheaper front
// state wins; ties go forward.
func (p *Propagating) Compute() error {
	dir, pull := p.pickDirection()
	if pull == nil {
		return domain.ErrNotComputable
	}

	from := pull.PopFirst()
	derivations, err := p.prop.Propagate(from.Payload(), dir)
	if err != nil {
		p.sendDerived(dir, from, ports.Derivation{Cost: domain.Failure(), Comment: err.Error()})
		return nil
	}
	for _, d := range derivations {
		p.sendDerived(dir, from, d)
	}
	return nil
}

// pickDirection chooses the direction whose best candidate is cheapest.
func (p *Propagating) pickDirection() (domain.Direction, *domain.Interface) {
	var fwdFront, bwdFront *domain.InterfaceState
	if p.forward && p.starts != nil {
		fwdFront = p.starts.First()
	}
	if p.backward && p.ends != nil {
		bwdFront = p.ends.First()
	}

	switch {
	case fwdFront != nil && bwdFront != nil:
		if bwdFront.Priority().Less(fwdFront.Priority()) {
			return domain.Backward, p.ends
		}
		return domain.Forward, p.starts
	case fwdFront != nil:
		return domain.Forward, p.starts
	case bwdFront != nil:
		return domain.Backward, p.ends
	default:
		return domain.Forward, nil
	}
}

// sendDerived records one derivation: successes are pushed in the travel
// direction, failures are stored (or counted) without propagating.
func (p *Propagating) sendDerived(dir domain.Direction, from *domain.InterfaceState, d ports.Derivation) {
	to := domain.NewInterfaceStateWithPriority(d.Payload, from.Priority().Extend(d.Cost))
	sol := domain.NewSolution(d.Cost, d.Comment)
	if dir == domain.Forward {
		p.sendForward(from, to, sol)
	} else {
		p.sendBackward(to, from, sol)
	}
}

// DropFailedStarts removes a known dead-end state from the start-side pull
// interface, keeping it from growing without bound on dead branches.
func (p *Propagating) DropFailedStarts(s *domain.InterfaceState) {
	if p.starts != nil {
		p.starts.Remove(s)
	}
}

// DropFailedEnds removes a known dead-end state from the end-side pull
// interface.
func (p *Propagating) DropFailedEnds(s *domain.InterfaceState) {
	if p.ends != nil {
		p.ends.Remove(s)
	}
}
