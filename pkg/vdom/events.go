package vdom

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, handler func()) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// OnClick handles click events.
func OnClick(handler func()) EventHandler { return event("click", handler) }

// OnContextMenu handles contextmenu (right-click) events.
func OnContextMenu(handler func()) EventHandler { return event("contextmenu", handler) }

// OnSubmit handles submit events.
func OnSubmit(handler func()) EventHandler { return event("submit", handler) }
