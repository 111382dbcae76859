package vango

import "sync/atomic"

// Effect is a post-commit side effect owned by a component. It runs after
// the render that scheduled it has been committed, and again whenever its
// dependency list changes between renders. The Cleanup returned by the
// previous run is called before each re-run and when the owner is disposed.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	// deps is the dependency list of the last scheduling render.
	deps []any

	owner *Owner

	// pending indicates the effect is scheduled to run.
	pending atomic.Bool

	disposed atomic.Bool

	runs int
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Runs returns how many times the effect body has executed.
func (e *Effect) Runs() int {
	return e.runs
}

// run executes the effect function after running the previous cleanup.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	e.pending.Store(false)

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	Untracked(func() {
		e.cleanup = e.fn()
	})
	e.runs++
}

// dispose runs the last cleanup; the effect never runs again.
func (e *Effect) dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// UseEffect schedules fn to run after the current render is committed.
//
// deps controls re-runs, the same way a dependency array does:
//   - nil: run after every render
//   - empty (e.g. []any{}): run once, after the first render
//   - otherwise: run again after any render where an element is not Same
//     as in the previous render
//
// This is a hook and MUST be called unconditionally during render.
//
// Example:
//
//	vango.UseEffect(func() vango.Cleanup {
//	    unsubscribe := store.Subscribe(onChange)
//	    return unsubscribe
//	}, []any{store})
func UseEffect(fn func() Cleanup, deps []any) *Effect {
	owner := hookOwner(HookEffect)

	var e *Effect
	if slot := owner.UseHookSlot(); slot != nil {
		e = slot.(*Effect)
	} else {
		e = &Effect{id: nextID(), owner: owner}
		owner.SetHookSlot(e)
		owner.registerEffect(e)
	}

	if first := e.runs == 0 && !e.pending.Load(); first || DepsChanged(e.deps, deps) {
		e.fn = fn
		e.deps = deps
		if e.pending.CompareAndSwap(false, true) {
			owner.scheduleEffect(e)
		}
	}

	return e
}
