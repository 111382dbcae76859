package vdom

import "strings"

// attr creates an attribute with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute from one or more class names.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Data sets a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Key sets the reconciliation key for a node.
func Key(key string) Attr { return attr("key", key) }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return attr("title", title) }

// Disabled sets the disabled boolean attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }
