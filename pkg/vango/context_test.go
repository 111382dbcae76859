package vango

import (
	"testing"

	"github.com/vango-dev/reflex/pkg/vdom"
)

func TestOwnerSetGetValue(t *testing.T) {
	owner := NewOwner(nil)

	if owner.GetValue("key") != nil {
		t.Error("expected nil for non-existent key")
	}
	if _, ok := owner.LookupValue("key"); ok {
		t.Error("LookupValue should report missing key")
	}

	owner.SetValue("key", "value")
	if owner.GetValue("key") != "value" {
		t.Errorf("expected 'value', got %v", owner.GetValue("key"))
	}

	owner.SetValue("nilKey", nil)
	if v, ok := owner.LookupValue("nilKey"); !ok || v != nil {
		t.Errorf("LookupValue(nilKey) = %v, %v; want nil, true", v, ok)
	}
}

func TestOwnerValueInheritance(t *testing.T) {
	parent := NewOwner(nil)
	child := NewOwner(parent)
	grandchild := NewOwner(child)

	parent.SetValue("inherited", "from parent")

	if child.GetValue("inherited") != "from parent" {
		t.Errorf("child should inherit from parent")
	}
	if grandchild.GetValue("inherited") != "from parent" {
		t.Errorf("grandchild should inherit from parent")
	}

	child.SetValue("inherited", "from child")
	if grandchild.GetValue("inherited") != "from child" {
		t.Errorf("grandchild should see child's value")
	}
	if parent.GetValue("inherited") != "from parent" {
		t.Errorf("parent value should be unchanged")
	}
	if child.GetValueLocal("inherited") != "from child" || grandchild.GetValueLocal("inherited") != nil {
		t.Errorf("GetValueLocal should not walk the hierarchy")
	}
}

func TestContextProviderRenderScopesValue(t *testing.T) {
	ctx := CreateContext("default")
	root := NewOwner(nil)
	defer root.Dispose()

	node := ctx.Provider("dark", vdom.Text("child"))
	if node == nil || node.Kind != vdom.KindComponent || node.Comp == nil {
		t.Fatalf("Provider() should return a component VNode, got %+v", node)
	}

	var out *vdom.VNode
	render(root, func() {
		out = node.Comp.Render()
	})
	if out.Kind != vdom.KindFragment || len(out.Children) != 1 {
		t.Fatalf("provider render = %+v, want fragment with one child", out)
	}

	child := NewOwner(root)
	var got string
	var ok bool
	render(child, func() {
		got, ok = ctx.Lookup()
	})
	if !ok || got != "dark" {
		t.Errorf("Lookup() = %q, %v; want dark, true", got, ok)
	}

	sibling := NewOwner(nil)
	defer sibling.Dispose()
	render(sibling, func() {
		got, ok = ctx.Lookup()
	})
	if ok || got != "default" {
		t.Errorf("Lookup() outside provider = %q, %v; want default, false", got, ok)
	}
}

func TestContextNearestProviderWins(t *testing.T) {
	ctx := CreateContext(0)
	outer := NewOwner(nil)
	defer outer.Dispose()
	inner := NewOwner(outer)
	leaf := NewOwner(inner)

	render(outer, func() { ctx.Set(1) })
	render(inner, func() { ctx.Set(2) })

	var got int
	render(leaf, func() { got = ctx.Use() })
	if got != 2 {
		t.Errorf("Use() = %d, want 2", got)
	}
	if ctx.Default() != 0 {
		t.Errorf("Default() = %d, want 0", ctx.Default())
	}
}
