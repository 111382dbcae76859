package runtime

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/reflex/internal/errors"
	"github.com/vango-dev/reflex/pkg/vango"
	"github.com/vango-dev/reflex/pkg/vdom"
)

func TestMountRendersNestedComponents(t *testing.T) {
	inner := vdom.Func(func() *vdom.VNode {
		return vdom.Span(vdom.Text("inner"))
	})
	outer := vdom.Func(func() *vdom.VNode {
		return vdom.Div(vdom.ID("outer"), inner)
	})

	root, err := MountComponent(outer)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer root.Unmount()

	html, err := root.HTML()
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if html != `<div id="outer"><span>inner</span></div>` {
		t.Errorf("HTML() = %q", html)
	}

	rootInst := root.Instance()
	if len(rootInst.Children) != 1 || len(rootInst.Children[0].Children) != 1 {
		t.Fatalf("unexpected instance tree shape")
	}
}

func TestSignalWriteRerendersReader(t *testing.T) {
	var count *vango.Signal[int]
	renders := 0

	comp := vdom.Func(func() *vdom.VNode {
		renders++
		count = vango.UseState(0)
		return vdom.Span(vdom.Textf("%d", count.Get()))
	})

	root, err := MountComponent(comp)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer root.Unmount()

	count.Set(3)
	if err := root.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if renders != 2 {
		t.Errorf("renders = %d, want 2", renders)
	}
	if html, _ := root.HTML(); html != "<span>3</span>" {
		t.Errorf("HTML() = %q", html)
	}

	// Flushing a clean tree renders nothing.
	if err := root.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if renders != 2 {
		t.Errorf("renders after clean flush = %d, want 2", renders)
	}
}

func TestChildRerenderKeepsParent(t *testing.T) {
	var count *vango.Signal[int]
	parentRenders, childRenders := 0, 0

	child := vdom.Func(func() *vdom.VNode {
		childRenders++
		count = vango.UseState(1)
		return vdom.Strong(vdom.Textf("%d", count.Get()))
	})
	parent := vdom.Func(func() *vdom.VNode {
		parentRenders++
		return vdom.Div(child)
	})

	root, err := MountComponent(parent)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer root.Unmount()

	count.Set(2)
	if err := root.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if parentRenders != 1 || childRenders != 2 {
		t.Errorf("renders parent=%d child=%d, want 1 and 2", parentRenders, childRenders)
	}
	if html, _ := root.HTML(); html != "<div><strong>2</strong></div>" {
		t.Errorf("HTML() = %q", html)
	}
}

func TestChildStatePreservedAcrossParentRender(t *testing.T) {
	var toggle *vango.Signal[bool]
	var childState *vango.Signal[int]
	childMounts := 0

	child := func() vdom.Component {
		return vdom.Func(func() *vdom.VNode {
			childState = vango.UseStateFunc(func() int {
				childMounts++
				return 7
			})
			return vdom.Span(vdom.Textf("%d", childState.Get()))
		})
	}
	parent := vdom.Func(func() *vdom.VNode {
		toggle = vango.UseState(false)
		return vdom.Div(vdom.Class(map[bool]string{true: "on", false: "off"}[toggle.Get()]), child())
	})

	root, err := MountComponent(parent)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer root.Unmount()

	childState.Set(8)
	toggle.Set(true)
	if err := root.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if childMounts != 1 {
		t.Errorf("child mounted %d times, want 1", childMounts)
	}
	if html, _ := root.HTML(); html != `<div class="on"><span>8</span></div>` {
		t.Errorf("HTML() = %q", html)
	}
}

func TestRemovedChildIsDisposed(t *testing.T) {
	var show *vango.Signal[bool]
	cleaned := 0

	child := vdom.Func(func() *vdom.VNode {
		vango.UseEffect(func() vango.Cleanup {
			return func() { cleaned++ }
		}, []any{})
		return vdom.Text("child")
	})
	parent := vdom.Func(func() *vdom.VNode {
		show = vango.UseState(true)
		if show.Get() {
			return vdom.Div(child)
		}
		return vdom.Div()
	})

	root, err := MountComponent(parent)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer root.Unmount()

	show.Set(false)
	if err := root.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if cleaned != 1 {
		t.Errorf("cleanup ran %d times, want 1", cleaned)
	}
	if got := len(root.Instance().Children[0].Children); got != 0 {
		t.Errorf("parent has %d children, want 0", got)
	}
}

func TestEffectsRunAfterCommit(t *testing.T) {
	var order []string

	child := vdom.Func(func() *vdom.VNode {
		order = append(order, "render child")
		vango.UseEffect(func() vango.Cleanup {
			order = append(order, "effect child")
			return nil
		}, []any{})
		return nil
	})
	parent := vdom.Func(func() *vdom.VNode {
		order = append(order, "render parent")
		vango.UseEffect(func() vango.Cleanup {
			order = append(order, "effect parent")
			return nil
		}, []any{})
		return vdom.Fragment(child)
	})

	root, err := MountComponent(parent)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer root.Unmount()

	want := "render parent,render child,effect parent,effect child"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %s, want %s", got, want)
	}
}

func TestEffectWritingStateRerenders(t *testing.T) {
	renders := 0
	comp := vdom.Func(func() *vdom.VNode {
		renders++
		ready := vango.UseState(false)
		vango.UseEffect(func() vango.Cleanup {
			ready.Set(true)
			return nil
		}, []any{})
		if ready.Get() {
			return vdom.Text("ready")
		}
		return vdom.Text("loading")
	})

	root, err := MountComponent(comp)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer root.Unmount()

	if html, _ := root.HTML(); html != "ready" {
		t.Errorf("HTML() = %q, want ready", html)
	}
	if renders != 2 {
		t.Errorf("renders = %d, want 2", renders)
	}
}

func TestFlushFailsWhenTreeNeverSettles(t *testing.T) {
	comp := vdom.Func(func() *vdom.VNode {
		n := vango.UseState(0)
		vango.UseEffect(func() vango.Cleanup {
			n.Update(func(v int) int { return v + 1 })
			return nil
		}, nil)
		return vdom.Textf("%d", n.Get())
	})

	root, err := MountComponent(comp, WithMaxPasses(5))
	if err == nil {
		t.Fatal("expected Mount to fail")
	}
	defer root.Unmount()
	if !errors.HasCode(err, "E003") {
		t.Errorf("error = %v, want E003", err)
	}
}

func TestClickInvokesHandler(t *testing.T) {
	comp := vdom.Func(func() *vdom.VNode {
		count := vango.UseState(0)
		return vdom.Button(
			vdom.ID("inc"),
			vdom.OnClick(func() { count.Update(func(n int) int { return n + 1 }) }),
			vdom.Textf("%d", count.Get()),
		)
	})

	commits := 0
	root, err := MountComponent(comp, WithOnCommit(func(*Root) { commits++ }))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer root.Unmount()

	for i := 0; i < 2; i++ {
		if err := root.Click("inc"); err != nil {
			t.Fatalf("Click() error = %v", err)
		}
	}

	if html, _ := root.HTML(); !strings.Contains(html, ">2</button>") {
		t.Errorf("HTML() = %q", html)
	}
	if commits != 3 {
		t.Errorf("commits = %d, want 3", commits)
	}

	if err := root.Click("missing"); !stderrors.Is(err, ErrNoElement) {
		t.Errorf("Click(missing) error = %v, want ErrNoElement", err)
	}
	if err := root.Dispatch("inc", "submit"); !stderrors.Is(err, ErrNoHandler) {
		t.Errorf("Dispatch(submit) error = %v, want ErrNoHandler", err)
	}

	root.Unmount()
	if err := root.Click("inc"); !stderrors.Is(err, ErrUnmounted) {
		t.Errorf("Click after Unmount error = %v, want ErrUnmounted", err)
	}
}

// within fails the test when fn does not return in time.
func within(t *testing.T, what string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s blocked", what)
	}
}

func recovered(fn func()) (r any) {
	defer func() { r = recover() }()
	fn()
	return nil
}

func TestPanicsReleaseTheLock(t *testing.T) {
	var broken *vango.Signal[bool]
	comp := vdom.Func(func() *vdom.VNode {
		broken = vango.UseState(false)
		if broken.Get() {
			panic("render failed")
		}
		return vdom.Button(
			vdom.ID("boom"),
			vdom.OnClick(func() { panic("handler failed") }),
			vdom.Text("ok"),
		)
	})

	root, err := MountComponent(comp)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer root.Unmount()

	if r := recovered(func() { root.Click("boom") }); r != "handler failed" {
		t.Fatalf("Click() recovered %v, want the handler panic", r)
	}
	within(t, "HTML after a handler panic", func() { root.HTML() })

	broken.Set(true)
	if r := recovered(func() { root.Flush() }); r != "render failed" {
		t.Fatalf("Flush() recovered %v, want the render panic", r)
	}
	within(t, "Flush after a render panic", func() { root.Flush() })
	within(t, "HTML after a render panic", func() { root.HTML() })
}

func TestUnmountStopsRenders(t *testing.T) {
	var count *vango.Signal[int]
	renders := 0
	cleaned := false

	comp := vdom.Func(func() *vdom.VNode {
		renders++
		count = vango.UseState(0)
		vango.UseEffect(func() vango.Cleanup {
			return func() { cleaned = true }
		}, []any{})
		return vdom.Textf("%d", count.Get())
	})

	root, err := MountComponent(comp)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	root.Unmount()
	root.Unmount()

	if !cleaned {
		t.Error("effect cleanup did not run on unmount")
	}

	count.Set(5)
	if err := root.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if renders != 1 {
		t.Errorf("renders = %d, want 1", renders)
	}
	if root.Tree() != nil {
		t.Error("Tree() should be nil after unmount")
	}
}

func TestRunFlushesInBackground(t *testing.T) {
	var count *vango.Signal[int]
	comp := vdom.Func(func() *vdom.VNode {
		count = vango.UseState(0)
		return vdom.Textf("%d", count.Get())
	})

	committed := make(chan struct{}, 1)
	root, err := MountComponent(comp, WithOnCommit(func(*Root) {
		select {
		case committed <- struct{}{}:
		default:
		}
	}))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer root.Unmount()
	<-committed

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- root.Run(ctx) }()

	count.Set(9)
	select {
	case <-committed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for background flush")
	}
	if html, _ := root.HTML(); html != "9" {
		t.Errorf("HTML() = %q, want 9", html)
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestContextFlowsThroughInstances(t *testing.T) {
	theme := vango.CreateContext("light")
	var seen string

	leaf := vdom.Func(func() *vdom.VNode {
		seen = theme.Use()
		return nil
	})
	middle := vdom.Func(func() *vdom.VNode {
		return vdom.Div(leaf)
	})
	app := vdom.Func(func() *vdom.VNode {
		return theme.Provider("dark", middle)
	})

	root, err := MountComponent(app)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer root.Unmount()

	if seen != "dark" {
		t.Errorf("leaf saw %q, want dark", seen)
	}
}

func TestOnCommitCanRenderHTML(t *testing.T) {
	var count *vango.Signal[int]
	comp := vdom.Func(func() *vdom.VNode {
		count = vango.UseState(1)
		return vdom.Textf("%d", count.Get())
	})

	var seen []string
	root, err := MountComponent(comp, WithOnCommit(func(r *Root) {
		html, err := r.HTML()
		if err != nil {
			t.Errorf("HTML() in OnCommit error = %v", err)
		}
		seen = append(seen, html)
	}))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer root.Unmount()

	count.Set(2)
	if err := root.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(seen) != 2 || seen[0] != "1" || seen[1] != "2" {
		t.Errorf("committed HTML = %v, want [1 2]", seen)
	}
}
