package application

import (
	"github.com/ahrav/go-taskgraph/internal/domain"
	"github.com/ahrav/go-taskgraph/internal/ports"
)

// Compile-time check that Connecting satisfies the stage contract.
var _ ports.Stage = (*Connecting)(nil)

// StatePair is one pending bridging candidate of a connecting stage: a
// start-side state and an end-side state, keyed by the sum of their costs.
type StatePair struct {
	Start *domain.InterfaceState
	End   *domain.InterfaceState
}

// Key returns the combined cost of the pair, the priority used by the
// pending queue.
func (p StatePair) Key() domain.Cost {
	return p.Start.Priority().Cost.Add(p.End.Priority().Cost)
}

func pairLess(a, b StatePair) bool {
	ak, bk := a.Key(), b.Key()
	if ak.IsFailure() != bk.IsFailure() {
		return !ak.IsFailure()
	}
	return ak < bk
}

// Connecting bridges two independently growing chains by pairing start and
// end candidates and attempting to link each pair into one continuous
// solution. It reacts incrementally: every state arriving on either side
// is paired with all states currently available on the other side, an
// O(other side) step accepted for keeping candidate selection globally
// cost-ordered instead of rescanning both interfaces every turn.
type Connecting struct {
	*stageCore

	bridger ports.Bridger

	// pending holds the not-yet-attempted pairs in ascending combined
	// cost. A popped pair is never re-attempted.
	pending *domain.Ordered[StatePair]
}

// NewConnecting creates a connecting stage backed by the given bridger.
// The stage owns pull interfaces on both sides and subscribes to their
// update notifications to grow the pending-pair queue.
func NewConnecting(name string, bridger ports.Bridger) *Connecting {
	c := &Connecting{
		stageCore: newStageCore(name),
		bridger:   bridger,
		pending:   domain.NewOrdered(pairLess),
	}
	c.starts = domain.NewInterface(domain.Forward)
	c.ends = domain.NewInterface(domain.Backward)
	c.starts.Observe(c.onNewStart)
	c.ends.Observe(c.onNewEnd)
	return c
}

// onNewStart pairs a newly arrived start state with every available end
// state.
func (c *Connecting) onNewStart(s *domain.InterfaceState) {
	c.ends.Each(func(end *domain.InterfaceState) bool {
		c.pending.Insert(StatePair{Start: s, End: end})
		return true
	})
}

// onNewEnd pairs a newly arrived end state with every available start
// state.
func (c *Connecting) onNewEnd(s *domain.InterfaceState) {
	c.starts.Each(func(start *domain.InterfaceState) bool {
		c.pending.Insert(StatePair{Start: start, End: s})
		return true
	})
}

// RequiredInterface declares that a connecting stage consumes both sides
// and produces no new states.
func (c *Connecting) RequiredInterface() ports.InterfaceFlags {
	return ports.ConnectsBothSides
}

// ValidateConnectivity reports a configuration error if either side lacks
// a neighbor to feed it.
func (c *Connecting) ValidateConnectivity() error {
	return c.validateRequired(c.RequiredInterface())
}

// CanCompute reports whether any pending pair awaits a bridging attempt.
func (c *Connecting) CanCompute() bool { return !c.pending.Empty() }

// Compute pops the pending pair with the minimum combined cost and asks
// the bridger to link it. Success records a connect solution between the
// two states; failure discards the pair as a failure record. Either way
// the exact pair never reappears.
func (c *Connecting) Compute() error {
	pair, ok := c.pending.PopFront()
	if !ok {
		return domain.ErrNotComputable
	}

	cost, comment, err := c.bridger.Bridge(pair.Start.Payload(), pair.End.Payload())
	if err != nil {
		c.connect(pair.Start, pair.End, domain.NewFailure(err.Error()))
		return nil
	}
	c.connect(pair.Start, pair.End, domain.NewSolution(cost, comment))
	return nil
}

// PendingLen returns the number of pairs awaiting a bridging attempt.
func (c *Connecting) PendingLen() int { return c.pending.Len() }

// PendingPairs returns a snapshot of the pending pairs in ascending
// combined cost.
func (c *Connecting) PendingPairs() []StatePair { return c.pending.Values() }
