package vango

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/reflex/internal/errors"
)

// HookType identifies the type of hook call for order validation.
type HookType uint8

const (
	HookState HookType = iota + 1
	HookMemo
	HookEffect
	HookRef
	HookContext
	HookSelector
)

// String returns a human-readable name for the hook type.
func (h HookType) String() string {
	switch h {
	case HookState:
		return "State"
	case HookMemo:
		return "Memo"
	case HookEffect:
		return "Effect"
	case HookRef:
		return "Ref"
	case HookContext:
		return "Context"
	case HookSelector:
		return "Selector"
	default:
		return "Unknown"
	}
}

// hookRecord records a single hook call for order validation.
type hookRecord struct {
	Type HookType
}

// Owner represents a component scope that owns hook state, effects and
// context values. When an Owner is disposed, all effects, cleanups and child
// owners it contains are disposed too.
//
// Owners form a hierarchy that mirrors the mounted component tree: context
// values set on an Owner are visible to all of its descendants.
type Owner struct {
	id uint64

	// parent is the parent Owner in the hierarchy.
	// nil for the root Owner.
	parent *Owner

	children   []*Owner
	childrenMu sync.Mutex

	// effects owned by this scope, disposed with it.
	effects   []*Effect
	effectsMu sync.Mutex

	// cleanups are manual cleanup functions registered via OnCleanup.
	cleanups   []func()
	cleanupsMu sync.Mutex

	// pendingEffects are effects scheduled to run after commit.
	pendingEffects   []*Effect
	pendingEffectsMu sync.Mutex

	values   map[any]any
	valuesMu sync.RWMutex

	disposed atomic.Bool

	// Dev-mode hook order tracking (only used when DebugMode is true)
	hookOrder   []hookRecord
	hookIndex   int
	renderCount int

	// Hook slot storage for stable identity across renders.
	hookSlots   []any
	hookSlotIdx int
}

// NewOwner creates a new Owner with the given parent.
// The new Owner is automatically registered as a child of the parent.
// If parent is nil, creates a root Owner.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		parent.addChild(o)
	}

	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent Owner, or nil if this is a root Owner.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed returns true if this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

func (o *Owner) addChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child *Owner) {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()

	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

func (o *Owner) snapshotChildren() []*Owner {
	o.childrenMu.Lock()
	defer o.childrenMu.Unlock()
	children := make([]*Owner, len(o.children))
	copy(children, o.children)
	return children
}

// registerEffect adds an effect to this Owner.
// The effect will be disposed when this Owner is disposed.
func (o *Owner) registerEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}

	o.effectsMu.Lock()
	defer o.effectsMu.Unlock()
	o.effects = append(o.effects, e)
}

// OnCleanup registers a cleanup function to run when this Owner is disposed.
func (o *Owner) OnCleanup(fn func()) {
	if o.disposed.Load() {
		// Already disposed, run cleanup immediately
		fn()
		return
	}

	o.cleanupsMu.Lock()
	defer o.cleanupsMu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// scheduleEffect adds an effect to the pending effects queue.
// Effects are run after the commit phase via RunPendingEffects.
func (o *Owner) scheduleEffect(e *Effect) {
	if o.disposed.Load() {
		return
	}

	o.pendingEffectsMu.Lock()
	defer o.pendingEffectsMu.Unlock()
	o.pendingEffects = append(o.pendingEffects, e)
}

// RunPendingEffects executes all pending effects of this owner and then of
// its children, depth first. The runtime calls it after a render pass has
// been committed.
func (o *Owner) RunPendingEffects() {
	if o.disposed.Load() {
		return
	}

	o.pendingEffectsMu.Lock()
	effects := o.pendingEffects
	o.pendingEffects = nil
	o.pendingEffectsMu.Unlock()

	for _, e := range effects {
		if e.pending.Load() {
			e.run()
		}
	}

	for _, child := range o.snapshotChildren() {
		child.RunPendingEffects()
	}
}

// HasPendingEffects returns true if this owner or any child has pending effects.
func (o *Owner) HasPendingEffects() bool {
	if o.disposed.Load() {
		return false
	}

	o.pendingEffectsMu.Lock()
	hasPending := len(o.pendingEffects) > 0
	o.pendingEffectsMu.Unlock()

	if hasPending {
		return true
	}

	for _, child := range o.snapshotChildren() {
		if child.HasPendingEffects() {
			return true
		}
	}

	return false
}

// Dispose disposes this Owner and all its children, effects, and cleanups.
// Children are disposed in reverse order (last created first).
// After disposal, the Owner cannot be used.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.childrenMu.Lock()
	children := o.children
	o.children = nil
	o.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	o.effectsMu.Lock()
	effects := o.effects
	o.effects = nil
	o.effectsMu.Unlock()

	for _, e := range effects {
		e.dispose()
	}

	o.cleanupsMu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	o.pendingEffectsMu.Lock()
	o.pendingEffects = nil
	o.pendingEffectsMu.Unlock()
}

// =============================================================================
// Render phase and hook order validation
// =============================================================================

// StartRender is called at the beginning of a component render.
// It resets the hook slot index, and in debug mode the order validation index.
func (o *Owner) StartRender() {
	beginRender()

	o.hookSlotIdx = 0

	if DebugMode {
		o.hookIndex = 0
	}
}

// EndRender is called at the end of a component render.
// In debug mode, it validates that all expected hooks were called.
func (o *Owner) EndRender() {
	endRender()

	if !DebugMode {
		return
	}
	if o.renderCount == 0 {
		o.renderCount = 1
	} else if o.hookIndex < len(o.hookOrder) {
		panic(errors.New("E002").WithDetail(fmt.Sprintf(
			"expected %d hooks, got %d", len(o.hookOrder), o.hookIndex)))
	}
}

// TrackHook records a hook call during render for order validation.
// In debug mode, hooks must be called in the same order on every render;
// violations panic with E002.
func (o *Owner) TrackHook(ht HookType) {
	if !DebugMode {
		return
	}

	if o.renderCount == 0 {
		o.hookOrder = append(o.hookOrder, hookRecord{Type: ht})
	} else {
		if o.hookIndex >= len(o.hookOrder) {
			panic(errors.New("E002").WithDetail(fmt.Sprintf(
				"extra %s hook at index %d", ht, o.hookIndex)))
		}
		expected := o.hookOrder[o.hookIndex]
		if expected.Type != ht {
			panic(errors.New("E002").WithDetail(fmt.Sprintf(
				"at index %d: expected %s, got %s", o.hookIndex, expected.Type, ht)))
		}
	}
	o.hookIndex++
}

// =============================================================================
// Hook slot storage
// =============================================================================

// UseHookSlot returns the stored value for the current hook slot, or nil on
// the first render. The caller creates the value and calls SetHookSlot.
//
//	func useThing() *thing {
//	    owner := vango.CurrentOwner()
//	    if slot := owner.UseHookSlot(); slot != nil {
//	        return slot.(*thing)
//	    }
//	    t := &thing{}
//	    owner.SetHookSlot(t)
//	    return t
//	}
func (o *Owner) UseHookSlot() any {
	idx := o.hookSlotIdx
	o.hookSlotIdx++

	if idx < len(o.hookSlots) {
		return o.hookSlots[idx]
	}
	return nil
}

// SetHookSlot stores a value in the current hook slot.
// Must be called after UseHookSlot returns nil (first render).
func (o *Owner) SetHookSlot(value any) {
	o.hookSlots = append(o.hookSlots, value)
}

// useSlot is the typed form of UseHookSlot/SetHookSlot used by the hooks in
// this package. init runs only on the first render of the owner.
func useSlot[T any](ht HookType, init func() T) T {
	owner := hookOwner(ht)
	if slot := owner.UseHookSlot(); slot != nil {
		return slot.(T)
	}
	v := init()
	owner.SetHookSlot(v)
	return v
}

// hookOwner returns the owner of the component currently rendering and
// records the hook call. Hooks called outside a render panic with E001.
func hookOwner(ht HookType) *Owner {
	owner := getCurrentOwner()
	if owner == nil || !isRendering() {
		panic(errors.New("E001").WithDetail(fmt.Sprintf("%s hook called with no component rendering", ht)))
	}
	owner.TrackHook(ht)
	return owner
}

// CurrentOwner returns the owner of the component currently rendering, or
// nil outside a render.
func CurrentOwner() *Owner {
	return getCurrentOwner()
}
