package render

import "github.com/vango-dev/reflex/pkg/vdom"

// isVoidElement returns true if the tag is a void element.
func isVoidElement(tag string) bool {
	return vdom.IsVoidElement(tag)
}

// inlineElements are elements that are typically rendered inline
// and don't need newlines in pretty-printed output.
var inlineElements = map[string]bool{
	"a":      true,
	"b":      true,
	"br":     true,
	"code":   true,
	"em":     true,
	"i":      true,
	"span":   true,
	"strong": true,
	"button": true,
}

// isInlineElement returns true if the tag is an inline element.
func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

// booleanAttrs are attributes that don't need a value.
// When true, they're rendered as just the attribute name.
var booleanAttrs = map[string]bool{
	"checked":  true,
	"disabled": true,
	"hidden":   true,
	"readonly": true,
	"required": true,
	"selected": true,
}

// isBooleanAttr returns true if the attribute is a boolean attribute.
func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
