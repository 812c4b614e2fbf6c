package domain

// Element is a stable handle to one entry of an Ordered list. Handles
// stay valid across unrelated insertions and removals, which is what lets
// states and pending pairs be removed in O(1) no matter how the
// surrounding collection has shifted since they were inserted.
type Element[T any] struct {
	Value T

	prev, next *Element[T]
	owner      *Ordered[T]
}

// Next returns the element following e in sort order, or nil at the tail
// or when e has been removed.
func (e *Element[T]) Next() *Element[T] {
	if e.owner == nil {
		return nil
	}
	return e.next
}

// Attached reports whether e is still held by its list.
func (e *Element[T]) Attached() bool { return e != nil && e.owner != nil }

// Ordered is a sorted doubly-linked list. Unlike a heap it yields stable
// element handles and keeps insertion order among equal values, so equal-
// priority entries are served first-in first-out.
type Ordered[T any] struct {
	less func(a, b T) bool

	head, tail *Element[T]
	size       int
}

// NewOrdered creates an empty list sorted by less.
func NewOrdered[T any](less func(a, b T) bool) *Ordered[T] {
	return &Ordered[T]{less: less}
}

// Len returns the number of elements held.
func (o *Ordered[T]) Len() int { return o.size }

// Empty reports whether the list holds no elements.
func (o *Ordered[T]) Empty() bool { return o.size == 0 }

// Front returns the first (smallest) element, or nil when empty.
func (o *Ordered[T]) Front() *Element[T] { return o.head }

// Insert adds v keeping the list sorted and returns its stable handle.
// The walk starts at the tail, so equal values land after all existing
// equals: first-in first-out among ties.
func (o *Ordered[T]) Insert(v T) *Element[T] {
	e := &Element[T]{Value: v, owner: o}

	pos := o.tail
	for pos != nil && o.less(v, pos.Value) {
		pos = pos.prev
	}

	if pos == nil {
		// New head.
		e.next = o.head
		if o.head != nil {
			o.head.prev = e
		}
		o.head = e
		if o.tail == nil {
			o.tail = e
		}
	} else {
		e.prev = pos
		e.next = pos.next
		if pos.next != nil {
			pos.next.prev = e
		} else {
			o.tail = e
		}
		pos.next = e
	}

	o.size++
	return e
}

// Remove detaches e from the list in O(1). Removing a nil or already
// detached element is a no-op; all other handles stay valid.
func (o *Ordered[T]) Remove(e *Element[T]) {
	if e == nil || e.owner != o {
		return
	}

	if e.prev != nil {
		e.prev.next = e.next
	} else {
		o.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		o.tail = e.prev
	}

	e.prev, e.next = nil, nil
	e.owner = nil
	o.size--
}

// PopFront removes and returns the value of the first element. The second
// return is false when the list is empty.
func (o *Ordered[T]) PopFront() (T, bool) {
	if o.head == nil {
		var zero T
		return zero, false
	}
	v := o.head.Value
	o.Remove(o.head)
	return v, true
}

// Each calls fn for every value in ascending order until fn returns
// false. fn must not mutate the list.
func (o *Ordered[T]) Each(fn func(v T) bool) {
	for e := o.head; e != nil; e = e.next {
		if !fn(e.Value) {
			return
		}
	}
}

// Values returns a snapshot of the values in ascending order.
func (o *Ordered[T]) Values() []T {
	out := make([]T, 0, o.size)
	for e := o.head; e != nil; e = e.next {
		out = append(out, e.Value)
	}
	return out
}
