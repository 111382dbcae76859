package vango

import (
	"runtime"
	"sync"
)

// TrackingContext holds the reactive state for a goroutine.
// Each goroutine has its own tracking context so independent component
// trees can render concurrently.
type TrackingContext struct {
	// currentOwner is the Owner that hooks called now belong to.
	// Set during component rendering to establish ownership hierarchy.
	currentOwner *Owner

	// currentListener is what's currently tracking dependencies.
	// When a signal is read, it subscribes this listener.
	// nil means no tracking (reads don't create subscriptions).
	currentListener Listener

	// renderDepth counts nested StartRender/EndRender pairs.
	renderDepth int
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine,
// parsed from the header line of runtime.Stack ("goroutine <id> [...").
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine.
// If no context exists, creates a new one.
func getTrackingContext() *TrackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*TrackingContext)
	}

	ctx := &TrackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// lookupTrackingContext returns the current goroutine's context or nil.
// Reads use it so they never allocate an entry.
func lookupTrackingContext() *TrackingContext {
	if ctx, ok := trackingContexts.Load(getGoroutineID()); ok {
		return ctx.(*TrackingContext)
	}
	return nil
}

func (ctx *TrackingContext) idle() bool {
	return ctx.currentOwner == nil && ctx.currentListener == nil && ctx.renderDepth == 0
}

// releaseIfIdle drops the current goroutine's context once nothing is
// installed in it, so goroutines that exit leave no entry behind.
func releaseIfIdle() {
	gid := getGoroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok && ctx.(*TrackingContext).idle() {
		trackingContexts.Delete(gid)
	}
}

func getCurrentListener() Listener {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.currentListener
	}
	return nil
}

// setCurrentListener sets the current listener for dependency tracking.
// Returns the previous listener so it can be restored.
func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

func getCurrentOwner() *Owner {
	if ctx := lookupTrackingContext(); ctx != nil {
		return ctx.currentOwner
	}
	return nil
}

// setCurrentOwner sets the current owner for hook calls.
// Returns the previous owner so it can be restored.
func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

func beginRender() {
	getTrackingContext().renderDepth++
}

func endRender() {
	ctx := lookupTrackingContext()
	if ctx == nil {
		return
	}
	if ctx.renderDepth > 0 {
		ctx.renderDepth--
	}
	releaseIfIdle()
}

func isRendering() bool {
	ctx := lookupTrackingContext()
	return ctx != nil && ctx.renderDepth > 0
}

// WithOwner runs a function with the specified owner as the current owner.
//
// Example:
//
//	WithOwner(instance.Owner, func() {
//	    instance.Owner.StartRender()
//	    defer instance.Owner.EndRender()
//	    tree = component.Render()
//	})
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer func() {
		setCurrentOwner(old)
		releaseIfIdle()
	}()
	fn()
}

// WithListener runs a function with the specified listener for tracking.
// The runtime uses it so signal reads during render subscribe the
// rendering component.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer func() {
		setCurrentListener(old)
		releaseIfIdle()
	}()
	fn()
}

// Untracked runs a function without tracking signal reads as dependencies.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer func() {
		setCurrentListener(old)
		releaseIfIdle()
	}()
	fn()
}

// ReleaseGoroutine removes the tracking context for the current goroutine.
// WithOwner, WithListener and Untracked already release it when they
// return to an empty context; this is for code that calls StartRender
// directly and exits mid-render.
func ReleaseGoroutine() {
	trackingContexts.Delete(getGoroutineID())
}
