package vango

import (
	"github.com/vango-dev/reflex/pkg/vdom"
)

// Context provides dependency injection through the component tree.
// Create a context with CreateContext, provide values with Provider,
// and consume values with Use or Lookup.
//
// Example:
//
//	var ThemeContext = vango.CreateContext("light")
//
//	func App() vdom.Component {
//	    return vdom.Func(func() *vdom.VNode {
//	        return ThemeContext.Provider("dark",
//	            Header(),
//	            Main(),
//	        )
//	    })
//	}
//
//	func Button() vdom.Component {
//	    return vdom.Func(func() *vdom.VNode {
//	        theme := ThemeContext.Use()
//	        return vdom.Button(vdom.Class("btn-" + theme))
//	    })
//	}
type Context[T any] struct {
	// key uniquely identifies this context in the owner value map
	key any

	// defaultValue is returned by Use when no provider is found
	defaultValue T
}

// contextKey wraps Context to create a unique key type
type contextKey[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a new context with the given default value.
//
//	var ThemeContext = vango.CreateContext("light")
//	var UserContext = vango.CreateContext[*User](nil)
func CreateContext[T any](defaultValue T) *Context[T] {
	ctx := &Context[T]{
		defaultValue: defaultValue,
	}
	ctx.key = contextKey[T]{ctx: ctx}
	return ctx
}

// contextProviderComponent publishes a context value in the owner of the
// component instance that renders it, so it is visible to every component
// mounted below it and to nothing outside.
type contextProviderComponent[T any] struct {
	ctx      *Context[T]
	value    T
	children []any
}

// Render implements vdom.Component.
func (p *contextProviderComponent[T]) Render() *vdom.VNode {
	if owner := getCurrentOwner(); owner != nil {
		owner.SetValue(p.ctx.key, p.value)
	}
	return vdom.Fragment(p.children...)
}

// Provider wraps children with this context's value.
// Descendant components can access the value via Use or Lookup.
func (c *Context[T]) Provider(value T, children ...any) *vdom.VNode {
	return vdom.Mount(&contextProviderComponent[T]{
		ctx:      c,
		value:    value,
		children: children,
	})
}

// Set publishes value for the component currently rendering and its
// descendants. Provider components built on top of a Context call it from
// their own render.
func (c *Context[T]) Set(value T) {
	owner := hookOwner(HookContext)
	owner.SetValue(c.key, value)
}

// Lookup retrieves the value from the nearest provider ancestor. ok is false
// when no provider exists above the calling component.
//
// This is a hook-like API and MUST be called unconditionally during render.
func (c *Context[T]) Lookup() (value T, ok bool) {
	owner := hookOwner(HookContext)
	raw, found := owner.LookupValue(c.key)
	if !found {
		return c.defaultValue, false
	}
	typed, ok := raw.(T)
	if !ok {
		return c.defaultValue, false
	}
	return typed, true
}

// Use retrieves the context value from the nearest Provider ancestor.
// If no Provider is found, returns the default value.
func (c *Context[T]) Use() T {
	v, _ := c.Lookup()
	return v
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}
