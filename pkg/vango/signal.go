package vango

import (
	"reflect"
	"sync"
)

// signalBase provides type-erased subscriber management.
type signalBase struct {
	id uint64

	// subs are the listeners subscribed to this signal.
	subs []Listener

	// subMu protects the subs slice.
	subMu sync.RWMutex
}

// subscribe adds a listener to this signal's subscribers.
// Deduplicates by listener ID to prevent double-subscription.
func (s *signalBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}

	s.subs = append(s.subs, l)
}

// unsubscribe removes a listener from this signal's subscribers.
func (s *signalBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// notifySubscribers notifies all subscribers that this signal changed.
// Uses copy-before-notify pattern to avoid holding locks during notification.
func (s *signalBase) notifySubscribers() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// Signal is a reactive value container.
// Reading a Signal's value while a component renders subscribes that
// component; setting a different value marks it dirty.
type Signal[T any] struct {
	base signalBase

	value T
	mu    sync.RWMutex

	// equal decides whether a write changes the value.
	// If nil, uses default equality checking.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
// It is not a hook; use UseState inside components.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		base: signalBase{
			id: nextID(),
		},
		value: initial,
	}
}

// UseState returns a signal that keeps its value across renders of the
// calling component. initial is only used on the first render.
//
// This is a hook and MUST be called unconditionally during render.
func UseState[T any](initial T) *Signal[T] {
	return useSlot(HookState, func() *Signal[T] { return NewSignal(initial) })
}

// UseStateFunc is UseState with a lazily computed initial value. init runs
// exactly once, during the first render.
func UseStateFunc[T any](init func() T) *Signal[T] {
	return useSlot(HookState, func() *Signal[T] { return NewSignal(init()) })
}

// Get returns the current value and subscribes the current listener.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	// Track dependency (after releasing value lock to prevent deadlock)
	if listener := getCurrentListener(); listener != nil {
		s.base.subscribe(listener)
	}

	return value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the signal's value and notifies subscribers if the value changed.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// Update atomically reads and updates the signal's value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(oldValue)
	changed := !s.equals(oldValue, newValue)
	if changed {
		s.value = newValue
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// Unsubscribe detaches a listener, typically a component being unmounted.
func (s *Signal[T]) Unsubscribe(l Listener) {
	s.base.unsubscribe(l)
}

// WithEquals returns the signal configured with a custom equality function.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for comparable values and reflect.DeepEqual for
// everything else.
func defaultEquals[T any](a, b T) bool {
	t := reflect.TypeOf(any(a))
	if t != nil && t.Comparable() {
		if eq, ok := safeEqual(any(a), any(b)); ok {
			return eq
		}
	}
	return reflect.DeepEqual(a, b)
}
