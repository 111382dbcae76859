package runtime

import (
	"reflect"
	"sync/atomic"

	"github.com/vango-dev/reflex/pkg/vango"
	"github.com/vango-dev/reflex/pkg/vdom"
)

// ComponentInstance is a mounted component with its reactive owner.
// It is the listener for every signal read during its render.
type ComponentInstance struct {
	// Component is the component last rendered by this instance.
	Component vdom.Component

	// Owner holds hook slots, context values and effects.
	Owner *vango.Owner

	// Parent is the parent instance (nil for the root).
	Parent *ComponentInstance

	// Children are the component instances found in the last output, in order.
	Children []*ComponentInstance

	node     *vdom.VNode
	depth    int
	pass     uint64
	renders  int
	dirty    atomic.Bool
	disposed atomic.Bool
	root     *Root
}

var _ vango.Listener = (*ComponentInstance)(nil)

func newComponentInstance(root *Root, parent *ComponentInstance, node *vdom.VNode) *ComponentInstance {
	parentOwner := root.owner
	depth := 0
	if parent != nil {
		parentOwner = parent.Owner
		depth = parent.depth + 1
	}
	return &ComponentInstance{
		Component: node.Comp,
		Owner:     vango.NewOwner(parentOwner),
		Parent:    parent,
		node:      node,
		depth:     depth,
		root:      root,
	}
}

// ID implements vango.Listener.
func (c *ComponentInstance) ID() uint64 {
	return c.Owner.ID()
}

// MarkDirty implements vango.Listener. It schedules the instance for the
// next Flush. Marks on an unmounted instance are ignored.
func (c *ComponentInstance) MarkDirty() {
	if c.disposed.Load() {
		return
	}
	if c.dirty.CompareAndSwap(false, true) {
		c.root.schedule(c)
	}
}

// IsDirty returns whether the instance is waiting for a re-render.
func (c *ComponentInstance) IsDirty() bool {
	return c.dirty.Load()
}

// Renders returns how many times the instance has rendered.
func (c *ComponentInstance) Renders() int {
	return c.renders
}

// Node returns the component node this instance resolves. Its only child is
// the last rendered output.
func (c *ComponentInstance) Node() *vdom.VNode {
	return c.node
}

// matches reports whether a component node in a new render can reuse this
// instance: same component type and same key.
func (c *ComponentInstance) matches(node *vdom.VNode) bool {
	if c.node.Key != node.Key {
		return false
	}
	return reflect.TypeOf(c.Component) == reflect.TypeOf(node.Comp)
}

// render runs the component under its owner and listener, then resolves the
// component nodes in its output.
func (c *ComponentInstance) render() {
	c.dirty.Store(false)
	c.renders++
	c.pass = c.root.pass

	var tree *vdom.VNode
	vango.WithOwner(c.Owner, func() {
		c.Owner.StartRender()
		defer c.Owner.EndRender()

		vango.WithListener(c, func() {
			tree = c.Component.Render()
		})
	})

	prev := c.Children
	next := make([]*ComponentInstance, 0, len(prev))
	c.resolve(tree, prev, &next)

	for i, old := range prev {
		if i >= len(next) || next[i] != old {
			old.dispose()
		}
	}
	c.Children = next

	if tree == nil {
		c.node.Children = nil
	} else {
		c.node.Children = []*vdom.VNode{tree}
	}
}

// resolve walks a rendered tree and renders every component node found in
// it, reusing the previous child instance at the same position when it
// matches.
func (c *ComponentInstance) resolve(node *vdom.VNode, prev []*ComponentInstance, next *[]*ComponentInstance) {
	if node == nil {
		return
	}
	if node.Kind == vdom.KindComponent {
		if node.Comp == nil {
			return
		}
		pos := len(*next)
		var child *ComponentInstance
		if pos < len(prev) && prev[pos].matches(node) {
			child = prev[pos]
			child.Component = node.Comp
			child.node = node
		} else {
			child = newComponentInstance(c.root, c, node)
		}
		*next = append(*next, child)
		child.render()
		return
	}
	for _, ch := range node.Children {
		c.resolve(ch, prev, next)
	}
}

// dispose unmounts the instance and its subtree. Disposing the owner runs
// effect cleanups and OnCleanup callbacks, children first.
func (c *ComponentInstance) dispose() {
	if c.disposed.Swap(true) {
		return
	}
	for i := len(c.Children) - 1; i >= 0; i-- {
		c.Children[i].dispose()
	}
	c.Children = nil
	c.Owner.Dispose()
	c.root.unschedule(c)
}
