package domain

import "maps"

// PropertyBag is the opaque configuration attached to each stage.
// The kernel treats it as read-only during a run; stage bodies read
// type-safe values through the generic Property accessor.
type PropertyBag struct {
	values map[string]any
}

// NewPropertyBag creates an empty property bag.
func NewPropertyBag() *PropertyBag {
	return &PropertyBag{values: make(map[string]any)}
}

// Set stores a value under name, replacing any previous value.
func (b *PropertyBag) Set(name string, value any) { b.values[name] = value }

// Get retrieves the raw value stored under name.
func (b *PropertyBag) Get(name string) (any, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Has reports whether a value is stored under name.
func (b *PropertyBag) Has(name string) bool {
	_, ok := b.values[name]
	return ok
}

// Names returns the names of all stored properties.
func (b *PropertyBag) Names() []string {
	out := make([]string, 0, len(b.values))
	for k := range b.values {
		out = append(out, k)
	}
	return out
}

// FillFrom copies every property from defaults that is not already set,
// letting a container seed its children's configuration at wiring time.
func (b *PropertyBag) FillFrom(defaults *PropertyBag) {
	if defaults == nil {
		return
	}
	for k, v := range defaults.values {
		if _, ok := b.values[k]; !ok {
			b.values[k] = v
		}
	}
}

// Clone returns an independent copy of the bag. Values are copied
// shallowly; the bag never inspects their contents.
func (b *PropertyBag) Clone() *PropertyBag {
	return &PropertyBag{values: maps.Clone(b.values)}
}

// Property retrieves a value with compile-time type safety, returning the
// zero value and false if the name is missing or holds a different type.
func Property[T any](b *PropertyBag, name string) (T, bool) {
	var zero T
	v, ok := b.values[name]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}
