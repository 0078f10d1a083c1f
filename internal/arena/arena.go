// Package arena provides a generation-checked slot arena.
//
// Values are addressed by opaque keys instead of pointers. Removing a value
// bumps the slot generation, so a key held across a removal stops resolving
// instead of aliasing whatever value reuses the slot.
package arena

// Key identifies a slot in an Arena. The zero Key never resolves.
type Key struct {
	index      uint32
	generation uint32
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return k.generation == 0
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Arena is a slot store with generational keys and free-list reuse.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns its key.
func (a *Arena[T]) Insert(v T) Key {
	a.live++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.value = v
		s.occupied = true
		return Key{index: idx, generation: s.generation}
	}
	a.slots = append(a.slots, slot[T]{value: v, generation: 1, occupied: true})
	return Key{index: uint32(len(a.slots) - 1), generation: 1}
}

// Get returns a pointer to the value for k, or ok=false when k is stale,
// foreign, or zero.
func (a *Arena[T]) Get(k Key) (*T, bool) {
	if k.IsZero() || int(k.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[k.index]
	if !s.occupied || s.generation != k.generation {
		return nil, false
	}
	return &s.value, true
}

// Remove frees the slot for k and invalidates the key. It reports whether a
// value was removed.
func (a *Arena[T]) Remove(k Key) bool {
	if _, ok := a.Get(k); !ok {
		return false
	}
	s := &a.slots[k.index]
	var zero T
	s.value = zero
	s.occupied = false
	s.generation++
	a.free = append(a.free, k.index)
	a.live--
	return true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.live
}

// Clone returns a deep copy of the arena. Keys valid for a are valid for the
// clone. The cloneValue function copies each occupied value; it may be nil
// when a shallow copy of T is sufficient.
func (a *Arena[T]) Clone(cloneValue func(T) T) *Arena[T] {
	out := &Arena[T]{
		slots: make([]slot[T], len(a.slots)),
		free:  make([]uint32, len(a.free)),
		live:  a.live,
	}
	copy(out.free, a.free)
	for i, s := range a.slots {
		if s.occupied && cloneValue != nil {
			s.value = cloneValue(s.value)
		}
		out.slots[i] = s
	}
	return out
}
