package vango

import "sync"

// Ref holds a mutable value that survives re-renders without causing them.
//
// Ref[T] is safe for concurrent access.
type Ref[T any] struct {
	value T
	mu    sync.RWMutex
}

// NewRef creates a new Ref with the given initial value. It is not a hook;
// use UseRef inside components.
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{value: initial}
}

// UseRef returns the same Ref on every render of the calling component.
// initial is only used on the first render.
//
// This is a hook and MUST be called unconditionally during render.
func UseRef[T any](initial T) *Ref[T] {
	return useSlot(HookRef, func() *Ref[T] { return NewRef(initial) })
}

// Current returns the current value of the ref.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set sets the ref's value.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
}
