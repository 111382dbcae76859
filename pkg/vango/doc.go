// Package vango provides the hook runtime that reflex components render in.
//
// Every mounted component instance owns an Owner. While the runtime renders
// an instance it installs that Owner (and the instance as the current
// Listener) on the rendering goroutine; hooks called from the render
// function keep their state in the Owner's hook slots, so the same call
// site sees the same state on every render.
//
// # Hooks
//
//	count := vango.UseState(0)            // *Signal[int], stable across renders
//	ref := vango.UseRef[int](0)           // mutable cell, never re-renders
//	doubled := vango.UseMemo(func() int { // recomputed when deps change
//	    return count.Get() * 2
//	}, []any{count.Peek()})
//	vango.UseEffect(func() vango.Cleanup { // runs after commit
//	    return subscribe()
//	}, []any{store})
//
// Reading a Signal with Get during render subscribes the rendering
// component; Set with a different value marks it dirty so the runtime
// re-renders it on the next flush.
//
// # Context
//
// Context[T] carries a value down the component tree. Values are stored on
// the Owner of the Provider's instance, so the nearest Provider wins.
//
// # Thread Safety
//
// Owners, signals and refs are safe for concurrent use. The tracking state
// (current owner and listener) is per goroutine.
package vango
