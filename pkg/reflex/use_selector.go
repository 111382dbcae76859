package reflex

import (
	"sync"

	"github.com/vango-dev/reflex/pkg/vango"
)

// selectorState is the per-instance record behind UseSelector. It survives
// re-renders; the store listener always reads the latest selector and
// equality function from it.
type selectorState[S, T any] struct {
	mu         sync.Mutex
	store      Store[S]
	selector   func(S) T
	selectorID uintptr
	equal      func(a, b T) bool
	selection  T

	// seen is the store state the selection was computed from, and
	// seenVersion its version when the store is Versioned.
	seen        S
	seenVersion uint64

	// version is bumped to re-render the component.
	version *vango.Signal[uint64]
}

// render records the selector of the current render and returns the
// selection to render. A new selector or a new store is evaluated against
// the current state immediately.
func (r *selectorState[S, T]) render(store Store[S], selector func(S) T, equal func(a, b T) bool) T {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := vango.FuncIdentity(selector)
	r.selector = selector
	r.equal = equal
	if id != r.selectorID || !vango.Same(r.store, store) {
		r.selectorID = id
		r.store = store
		r.evaluate()
	}
	return r.selection
}

// evaluate recomputes the selection from r.store. Requires r.mu.
func (r *selectorState[S, T]) evaluate() {
	if v, ok := r.store.(Versioned); ok {
		// Read the version first: a change landing in between makes the
		// record look stale, never fresh.
		r.seenVersion = v.Version()
	}
	r.seen = r.store.GetState()
	r.selection = r.selector(r.seen)
}

// stale reports whether store changed since the selection was computed.
func (r *selectorState[S, T]) stale(store Store[S]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := store.(Versioned); ok {
		return v.Version() != r.seenVersion
	}
	return !vango.Same(r.seen, store.GetState())
}

// onChange is the store listener. It bumps the version only when the new
// selection was accepted.
func (r *selectorState[S, T]) onChange(state S) {
	if r.accept(state) {
		r.version.Update(func(v uint64) uint64 { return v + 1 })
	}
}

// accept replaces the selection with the latest selector's result unless
// the equality function reports it equal to the current one.
func (r *selectorState[S, T]) accept(state S) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidate := r.selector(state)
	if r.equal(candidate, r.selection) {
		return false
	}
	r.selection = candidate
	return true
}

// subscribe attaches onChange to store. A change emitted between render
// and subscription is caught up once; otherwise the selector is not run
// again, so mounting renders exactly once.
func (r *selectorState[S, T]) subscribe(store Store[S]) vango.Cleanup {
	unsubscribe := store.Subscribe(r.onChange)
	if r.stale(store) {
		r.onChange(store.GetState())
	}

	var once sync.Once
	return func() {
		once.Do(unsubscribe)
	}
}

// UseSelector returns selector applied to the state of the nearest
// Provider's store and re-renders the calling component whenever a store
// change produces a selection that is not equal to the current one.
//
// equalityFn decides whether a new selection equals the current one; the
// default is Identical. Only the first equality function is used.
//
// Swapping the selector (a func value with a different identity) or the
// store re-evaluates the selection during the same render. The store
// subscription is made after commit and removed on unmount.
//
// This is a hook and MUST be called unconditionally during render.
func UseSelector[S, T any](selector func(S) T, equalityFn ...func(a, b T) bool) T {
	store := UseProducer[S]()

	equal := Identical[T]
	if len(equalityFn) > 0 && equalityFn[0] != nil {
		equal = equalityFn[0]
	}

	rec := vango.UseMemo(func() *selectorState[S, T] {
		r := &selectorState[S, T]{
			store:      store,
			selector:   selector,
			selectorID: vango.FuncIdentity(selector),
			equal:      equal,
			version:    vango.NewSignal[uint64](0),
		}
		r.evaluate()
		return r
	}, []any{})

	rec.version.Get()
	selection := rec.render(store, selector, equal)

	vango.UseEffect(func() vango.Cleanup {
		return rec.subscribe(store)
	}, []any{store})

	return selection
}
