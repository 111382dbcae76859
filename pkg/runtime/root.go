package runtime

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vango-dev/reflex/internal/errors"
	"github.com/vango-dev/reflex/pkg/render"
	"github.com/vango-dev/reflex/pkg/vango"
	"github.com/vango-dev/reflex/pkg/vdom"
)

// Dispatch errors for events that found nothing to run. Callers serving
// events over HTTP map them to 404.
var (
	ErrUnmounted = stderrors.New("runtime: root is unmounted")
	ErrNoElement = stderrors.New("runtime: no element with id")
	ErrNoHandler = stderrors.New("runtime: no handler")
)

// Root is a mounted component tree.
type Root struct {
	mu        sync.Mutex
	owner     *vango.Owner
	instance  *ComponentInstance
	pass      uint64
	unmounted bool

	dirtyMu  sync.Mutex
	dirty    map[*ComponentInstance]struct{}
	renderCh chan struct{}

	renderer  *render.Renderer
	logger    *slog.Logger
	maxPasses int
	onCommit  []func(*Root)
}

// Mount renders node and every component below it, runs the first round of
// effects, and returns the mounted Root. Panics raised by components while
// rendering propagate to the caller.
func Mount(node *vdom.VNode, opts ...Option) (*Root, error) {
	r := &Root{
		owner:     vango.NewOwner(nil),
		dirty:     make(map[*ComponentInstance]struct{}),
		renderCh:  make(chan struct{}, 1),
		renderer:  render.NewRenderer(render.RendererConfig{}),
		logger:    slog.Default(),
		maxPasses: DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(r)
	}

	rootNode := &vdom.VNode{
		Kind: vdom.KindComponent,
		Comp: vdom.Func(func() *vdom.VNode { return node }),
	}

	if err := r.mountLocked(rootNode); err != nil {
		return r, err
	}
	r.commit()
	return r, nil
}

func (r *Root) mountLocked(rootNode *vdom.VNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.instance = newComponentInstance(r, nil, rootNode)
	r.pass++
	r.instance.render()
	r.owner.RunPendingEffects()
	return r.flushLocked()
}

// MountComponent mounts a single component as the root.
func MountComponent(c vdom.Component, opts ...Option) (*Root, error) {
	return Mount(vdom.Mount(c), opts...)
}

// Flush re-renders dirty instances, parents before children, then runs
// post-commit effects. It repeats until the tree settles and fails with E003
// when it does not settle within the configured number of passes.
func (r *Root) Flush() error {
	changed, err := r.flushChanged()
	if err != nil {
		return err
	}
	if changed {
		r.commit()
	}
	return nil
}

// flushChanged flushes under the lock and reports whether anything was
// rendered. The lock is released even when a component panics.
func (r *Root) flushChanged() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unmounted {
		return false, nil
	}
	rendered := r.pass
	err := r.flushLocked()
	return r.pass != rendered, err
}

func (r *Root) flushLocked() error {
	for i := 0; i < r.maxPasses; i++ {
		dirty := r.takeDirty()
		if len(dirty) == 0 && !r.owner.HasPendingEffects() {
			return nil
		}

		r.pass++
		sort.SliceStable(dirty, func(a, b int) bool {
			return dirty[a].depth < dirty[b].depth
		})

		if vango.DebugMode {
			r.logger.Debug("render pass", "pass", r.pass, "dirty", len(dirty))
		}

		for _, inst := range dirty {
			// Already rendered as part of a parent in this pass.
			if inst.disposed.Load() || inst.pass == r.pass {
				continue
			}
			inst.render()
		}

		r.owner.RunPendingEffects()
	}
	return errors.New("E003").WithDetail(fmt.Sprintf("still dirty after %d passes", r.maxPasses))
}

func (r *Root) commit() {
	for _, fn := range r.onCommit {
		fn(r)
	}
}

func (r *Root) schedule(c *ComponentInstance) {
	r.dirtyMu.Lock()
	r.dirty[c] = struct{}{}
	r.dirtyMu.Unlock()

	select {
	case r.renderCh <- struct{}{}:
	default:
		// Already scheduled
	}
}

func (r *Root) unschedule(c *ComponentInstance) {
	r.dirtyMu.Lock()
	delete(r.dirty, c)
	r.dirtyMu.Unlock()
}

// takeDirty drains the dirty set. Instances whose flag was cleared by a
// render since they were marked are skipped.
func (r *Root) takeDirty() []*ComponentInstance {
	r.dirtyMu.Lock()
	defer r.dirtyMu.Unlock()

	var out []*ComponentInstance
	for c := range r.dirty {
		if c.dirty.Load() && !c.disposed.Load() {
			out = append(out, c)
		}
	}
	clear(r.dirty)
	return out
}

// Run flushes whenever an instance is marked dirty until ctx is cancelled
// or the root is unmounted. Flush errors are logged and do not stop the loop.
func (r *Root) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.renderCh:
			if err := r.Flush(); err != nil {
				r.logger.Error("flush failed", "error", err)
			}
			if r.isUnmounted() {
				return nil
			}
		}
	}
}

func (r *Root) isUnmounted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unmounted
}

// Tree returns the resolved tree. Component nodes carry their rendered
// output as their only child.
func (r *Root) Tree() *vdom.VNode {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unmounted {
		return nil
	}
	return r.instance.node
}

// Instance returns the root component instance.
func (r *Root) Instance() *ComponentInstance {
	return r.instance
}

// HTML renders the current tree.
func (r *Root) HTML() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unmounted {
		return "", nil
	}
	return r.renderer.RenderToString(r.instance.node)
}

// Dispatch invokes the handler for event on the element with the given id
// attribute and flushes.
func (r *Root) Dispatch(id, event string) error {
	changed, err := r.dispatchLocked(id, event)
	if err != nil {
		return err
	}
	if changed {
		r.commit()
	}
	return nil
}

func (r *Root) dispatchLocked(id, event string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unmounted {
		return false, ErrUnmounted
	}
	el := findByID(r.instance.node, id)
	if el == nil {
		return false, fmt.Errorf("%w: %q", ErrNoElement, id)
	}
	handler, ok := el.Handler(event)
	if !ok {
		return false, fmt.Errorf("%w: element %q has no %s handler", ErrNoHandler, id, event)
	}
	vango.Untracked(handler)

	rendered := r.pass
	err := r.flushLocked()
	return r.pass != rendered, err
}

// Click is Dispatch(id, "click").
func (r *Root) Click(id string) error {
	return r.Dispatch(id, "click")
}

// Unmount disposes every instance. Effect cleanups run children first.
// Further marks and flushes are no-ops.
func (r *Root) Unmount() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unmounted {
		return
	}
	r.unmounted = true
	r.instance.dispose()
	r.owner.Dispose()

	if vango.DebugMode {
		r.logger.Debug("root unmounted", "passes", r.pass)
	}
}

func findByID(node *vdom.VNode, id string) *vdom.VNode {
	if node == nil {
		return nil
	}
	if node.Kind == vdom.KindElement {
		if v, ok := node.Props["id"].(string); ok && v == id {
			return node
		}
	}
	for _, child := range node.Children {
		if found := findByID(child, id); found != nil {
			return found
		}
	}
	return nil
}
