package domain

import "fmt"

// UpdateFunc is called by an Interface after a new state has been added.
// It lets an owner react incrementally (e.g. pair the new arrival against
// another queue) instead of rescanning the whole interface every turn.
// The callback runs synchronously on the scheduler goroutine and must not
// remove states from the notifying interface.
type UpdateFunc func(s *InterfaceState)

// Interface is a directional, cost-ordered queue of candidate states
// forming the contact point between two neighboring stages. Both stages
// share the same Interface instance: one side owns it as its pull queue,
// the other holds a non-owning reference as its push target.
//
// Iteration always yields states in non-decreasing priority order; ties
// keep insertion order.
type Interface struct {
	dir       Direction
	states    *Ordered[*InterfaceState]
	observers []UpdateFunc
}

// NewInterface creates an empty queue flowing in the given direction.
func NewInterface(dir Direction) *Interface {
	return &Interface{
		dir: dir,
		states: NewOrdered(func(a, b *InterfaceState) bool {
			return a.Priority().Less(b.Priority())
		}),
	}
}

// Direction returns the flow direction fixed at construction.
func (i *Interface) Direction() Direction { return i.dir }

// Len returns the number of queued states.
func (i *Interface) Len() int { return i.states.Len() }

// Empty reports whether the queue holds no states.
func (i *Interface) Empty() bool { return i.states.Empty() }

// Observe registers fn to be called for every state subsequently added.
// The returned function unregisters fn; calling it more than once is safe.
func (i *Interface) Observe(fn UpdateFunc) (remove func()) {
	idx := len(i.observers)
	i.observers = append(i.observers, fn)
	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		i.observers[idx] = nil
	}
}

// Add inserts s preserving sort order and notifies registered observers.
// It fails if s is nil or already held by an interface: a queued state is
// immutable and cannot be in two places at once.
func (i *Interface) Add(s *InterfaceState) error {
	if s == nil {
		return ErrNilState
	}
	if s.owner != nil {
		return fmt.Errorf("%w: state already queued on a %s interface", ErrStateOwned, s.owner.dir)
	}

	s.owner = i
	s.elem = i.states.Insert(s)

	for _, fn := range i.observers {
		if fn != nil {
			fn(s)
		}
	}
	return nil
}

// Remove detaches s from the queue. Removing a state that is not held by
// this interface is a no-op; handles to other states stay valid.
func (i *Interface) Remove(s *InterfaceState) {
	if s == nil || s.owner != i {
		return
	}
	i.states.Remove(s.elem)
	s.owner = nil
	s.elem = nil
}

// First returns the cheapest queued state, or nil if the queue is empty.
func (i *Interface) First() *InterfaceState {
	if e := i.states.Front(); e != nil {
		return e.Value
	}
	return nil
}

// PopFirst removes and returns the cheapest queued state, or nil if the
// queue is empty.
func (i *Interface) PopFirst() *InterfaceState {
	s := i.First()
	if s != nil {
		i.Remove(s)
	}
	return s
}

// Each calls fn for every queued state in ascending priority order until
// fn returns false. fn must not mutate the queue.
func (i *Interface) Each(fn func(s *InterfaceState) bool) {
	i.states.Each(fn)
}

// States returns a snapshot of the queued states in ascending priority
// order.
func (i *Interface) States() []*InterfaceState {
	return i.states.Values()
}
