// Package render serializes resolved VNode trees to HTML.
//
// The runtime resolves component nodes before rendering: a KindComponent
// node handed to the renderer carries the component's last rendered output
// as its only child, so the renderer never calls Render itself and never
// runs hooks outside a component scope.
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(root.Tree())
//
// All text and attribute values are escaped. Event handlers are not
// rendered; elements that have them get a data-on-<event> marker instead.
package render
