// Package vdom provides the virtual node model rendered by the reflex runtime.
//
// A VNode is an element, a text node, a fragment, or a nested component.
// Components are anything with a Render method; the runtime mounts each
// component node as its own instance with its own hook scope.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("counter"), ID("count"),
//	    Span(Textf("Count: %d", count)),
//	    Button(OnClick(increment), Text("+")),
//	)
//
// Strings become text children, Components become component children, and
// nil arguments are ignored so attributes can be conditional.
package vdom
