package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{
		Kind:     KindFragment,
		Children: make([]*VNode, 0, len(children)),
	}
	node.Children = appendChildren(node.Children, children)
	return node
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// appendChildren converts the loosely typed child arguments accepted by
// element and fragment constructors into nodes.
func appendChildren(dst []*VNode, children []any) []*VNode {
	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				dst = append(dst, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					dst = append(dst, c)
				}
			}
		case string:
			dst = append(dst, Text(v))
		case Component:
			dst = append(dst, Mount(v))
		}
	}
	return dst
}
