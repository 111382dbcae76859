package reflex

import (
	"context"
	"sync"
	"testing"

	"github.com/vango-dev/reflex/pkg/producer"
	"github.com/vango-dev/reflex/pkg/vango"
	"github.com/vango-dev/reflex/pkg/vdom"
)

func TestUseSelectorFollowsState(t *testing.T) {
	store := newStore()
	var rendered []int

	child := vdom.Func(func() *vdom.VNode {
		count := UseSelector(selectCount)
		rendered = append(rendered, count)
		return vdom.Span(vdom.Textf("Count: %d", count))
	})
	root := mount(t, Provider[counterState](store, child))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := store.Dispatch(ctx, "increment"); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
		flush(t, root)
	}

	want := []int{0, 1, 2, 3}
	if len(rendered) != len(want) {
		t.Fatalf("rendered = %v, want %v", rendered, want)
	}
	for i := range want {
		if rendered[i] != want[i] {
			t.Fatalf("rendered = %v, want %v", rendered, want)
		}
	}
	if html, _ := root.HTML(); html != "<span>Count: 3</span>" {
		t.Errorf("HTML() = %q", html)
	}
}

func TestUseSelectorSkipsEqualSelections(t *testing.T) {
	store := newStore()
	renders := 0
	var label string

	child := vdom.Func(func() *vdom.VNode {
		renders++
		label = UseSelector(selectLabel)
		return nil
	})
	root := mount(t, Provider[counterState](store, child))

	ctx := context.Background()
	store.Dispatch(ctx, "increment")
	store.Dispatch(ctx, "increment")
	flush(t, root)

	if renders != 1 {
		t.Errorf("renders = %d, want 1 when the selection is unchanged", renders)
	}

	store.Dispatch(ctx, "rename", "taps")
	flush(t, root)

	if renders != 2 || label != "taps" {
		t.Errorf("renders = %d label = %q, want 2 and taps", renders, label)
	}
}

func TestUseSelectorSwapIsSynchronous(t *testing.T) {
	store := newStore()
	store.SetState(counterState{Count: 4})

	var double *vango.Signal[bool]
	var rendered []int

	child := vdom.Func(func() *vdom.VNode {
		double = vango.UseState(false)
		sel := selectCount
		if double.Get() {
			sel = selectDouble
		}
		rendered = append(rendered, UseSelector(sel))
		return nil
	})
	root := mount(t, Provider[counterState](store, child))
	subscribes := store.ListenerCount()

	double.Set(true)
	flush(t, root)

	if len(rendered) != 2 || rendered[0] != 4 || rendered[1] != 8 {
		t.Errorf("rendered = %v, want [4 8]", rendered)
	}
	if store.ListenerCount() != subscribes {
		t.Errorf("listeners = %d, want %d (no resubscribe on selector swap)", store.ListenerCount(), subscribes)
	}

	// The listener uses the new selector.
	store.Dispatch(context.Background(), "increment")
	flush(t, root)
	if last := rendered[len(rendered)-1]; last != 10 {
		t.Errorf("after increment rendered %d, want 10", last)
	}
}

func TestUseSelectorFreshPointerSelections(t *testing.T) {
	t.Run("identity re-renders on every change", func(t *testing.T) {
		store := newStore()
		renders := 0
		child := vdom.Func(func() *vdom.VNode {
			renders++
			UseSelector(selectBox)
			return nil
		})
		root := mount(t, Provider[counterState](store, child))
		if renders != 1 {
			t.Fatalf("renders after mount = %d, want 1", renders)
		}

		ctx := context.Background()
		store.Dispatch(ctx, "rename", "a")
		flush(t, root)
		store.Dispatch(ctx, "rename", "b")
		flush(t, root)

		if renders != 3 {
			t.Errorf("renders after 2 changes = %d, want 3", renders)
		}
	})

	t.Run("deep equality suppresses re-renders", func(t *testing.T) {
		store := newStore()
		renders := 0
		child := vdom.Func(func() *vdom.VNode {
			renders++
			UseSelector(selectBox, DeepEqual[*countBox])
			return nil
		})
		root := mount(t, Provider[counterState](store, child))

		ctx := context.Background()
		store.Dispatch(ctx, "rename", "a")
		flush(t, root)
		store.Dispatch(ctx, "rename", "b")
		flush(t, root)

		if renders != 1 {
			t.Errorf("renders = %d, want 1", renders)
		}

		store.Dispatch(ctx, "increment")
		flush(t, root)
		if renders != 2 {
			t.Errorf("renders after count change = %d, want 2", renders)
		}
	})
}

func TestUseSelectorCustomEqualityReceivesNewThenCurrent(t *testing.T) {
	store := newStore()
	var calls [][2]int

	eq := func(a, b int) bool {
		calls = append(calls, [2]int{a, b})
		return a == b
	}
	child := vdom.Func(func() *vdom.VNode {
		UseSelector(selectCount, eq)
		return nil
	})
	root := mount(t, Provider[counterState](store, child))
	calls = nil

	store.Dispatch(context.Background(), "increment")
	flush(t, root)

	if len(calls) != 1 || calls[0] != [2]int{1, 0} {
		t.Errorf("equality calls = %v, want [[1 0]]", calls)
	}
}

func TestUseSelectorUnmountUnsubscribes(t *testing.T) {
	store := newStore()
	renders := 0

	child := vdom.Func(func() *vdom.VNode {
		renders++
		UseSelector(selectCount)
		return nil
	})
	root := mount(t, Provider[counterState](store, child))

	if store.ListenerCount() != 1 {
		t.Fatalf("listeners = %d, want 1", store.ListenerCount())
	}

	root.Unmount()
	if store.ListenerCount() != 0 {
		t.Errorf("listeners after unmount = %d, want 0", store.ListenerCount())
	}

	store.Dispatch(context.Background(), "increment")
	flush(t, root)
	if renders != 1 {
		t.Errorf("renders = %d, want 1", renders)
	}
}

func TestUseSelectorConditionalChildUnsubscribes(t *testing.T) {
	store := newStore()
	var show *vango.Signal[bool]

	child := vdom.Func(func() *vdom.VNode {
		UseSelector(selectCount)
		return nil
	})
	app := vdom.Func(func() *vdom.VNode {
		show = vango.UseState(true)
		return Provider[counterState](store, vdom.If(show.Get(), vdom.Mount(child)))
	})
	root := mount(t, vdom.Mount(app))

	show.Set(false)
	flush(t, root)

	if store.ListenerCount() != 0 {
		t.Errorf("listeners = %d, want 0 after the child is removed", store.ListenerCount())
	}
}

func TestUseSelectorStoreSwap(t *testing.T) {
	a, b := newStore(), newStore()
	b.SetState(counterState{Count: 7})

	var useB *vango.Signal[bool]
	var rendered []int

	child := vdom.Func(func() *vdom.VNode {
		rendered = append(rendered, UseSelector(selectCount))
		return nil
	})
	app := vdom.Func(func() *vdom.VNode {
		useB = vango.UseState(false)
		store := a
		if useB.Get() {
			store = b
		}
		return Provider[counterState](store, child)
	})
	root := mount(t, vdom.Mount(app))

	useB.Set(true)
	flush(t, root)

	if last := rendered[len(rendered)-1]; last != 7 {
		t.Fatalf("rendered %v, want last 7", rendered)
	}
	if a.ListenerCount() != 0 || b.ListenerCount() != 1 {
		t.Errorf("listeners a=%d b=%d, want 0 and 1", a.ListenerCount(), b.ListenerCount())
	}

	a.Dispatch(context.Background(), "increment")
	flush(t, root)
	if last := rendered[len(rendered)-1]; last != 7 {
		t.Errorf("old store change leaked into selection: %v", rendered)
	}
}

func TestUseSelectorCatchesChangeBeforeSubscribe(t *testing.T) {
	store := newStore()
	var rendered []int

	child := vdom.Func(func() *vdom.VNode {
		rendered = append(rendered, UseSelector(selectCount))
		return nil
	})
	// Parent effects run before child effects, so this change lands after
	// the child rendered and before it subscribed.
	app := vdom.Func(func() *vdom.VNode {
		vango.UseEffect(func() vango.Cleanup {
			store.Dispatch(context.Background(), "increment")
			return nil
		}, []any{})
		return Provider[counterState](store, child)
	})
	mount(t, vdom.Mount(app))

	if len(rendered) != 2 || rendered[0] != 0 || rendered[1] != 1 {
		t.Errorf("rendered = %v, want [0 1]", rendered)
	}
}

func TestUseSelectorNoExtraRenderOnMount(t *testing.T) {
	stores := map[string]func() Store[counterState]{
		"versioned": func() Store[counterState] { return newStore() },
		"plain":     func() Store[counterState] { return plainStore{newStore()} },
	}
	selectors := map[string]func(*int) vdom.Component{
		"whole state": func(renders *int) vdom.Component {
			return vdom.Func(func() *vdom.VNode { *renders++; UseSelector(selectState); return nil })
		},
		"fresh pointer": func(renders *int) vdom.Component {
			return vdom.Func(func() *vdom.VNode { *renders++; UseSelector(selectBox); return nil })
		},
		"fresh slice": func(renders *int) vdom.Component {
			return vdom.Func(func() *vdom.VNode { *renders++; UseSelector(selectLabels); return nil })
		},
	}

	for storeName, open := range stores {
		for selName, component := range selectors {
			t.Run(storeName+"/"+selName, func(t *testing.T) {
				renders := 0
				mount(t, Provider(open(), component(&renders)))
				if renders != 1 {
					t.Errorf("renders = %d, want 1", renders)
				}
			})
		}
	}
}

func TestUseSelectorCatchesChangeOnPlainStore(t *testing.T) {
	store := plainStore{newStore()}
	var rendered []int

	child := vdom.Func(func() *vdom.VNode {
		rendered = append(rendered, UseSelector(selectCount))
		return nil
	})
	app := vdom.Func(func() *vdom.VNode {
		vango.UseEffect(func() vango.Cleanup {
			store.p.Dispatch(context.Background(), "increment")
			return nil
		}, []any{})
		return Provider[counterState](store, child)
	})
	mount(t, vdom.Mount(app))

	if len(rendered) != 2 || rendered[1] != 1 {
		t.Errorf("rendered = %v, want [0 1]", rendered)
	}
}

func TestUseSelectorConcurrentDispatch(t *testing.T) {
	store := newStore()
	var mu sync.Mutex
	var last int

	child := vdom.Func(func() *vdom.VNode {
		count := UseSelector(selectCount)
		mu.Lock()
		last = count
		mu.Unlock()
		return nil
	})
	root := mount(t, Provider[counterState](store, child))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Dispatch(context.Background(), "increment")
		}()
	}
	wg.Wait()
	flush(t, root)

	mu.Lock()
	defer mu.Unlock()
	if last != 20 {
		t.Errorf("last rendered = %d, want 20", last)
	}
}

func TestUseSelectorCreator(t *testing.T) {
	type todosState struct {
		Todos map[int]string `json:"todos"`
	}
	store := producer.New(todosState{Todos: map[int]string{1: "write", 2: "test"}})

	selectTodo := func(id int) func(todosState) string {
		return func(s todosState) string { return s.Todos[id] }
	}

	var id *vango.Signal[int]
	var rendered []string
	creates := 0

	child := vdom.Func(func() *vdom.VNode {
		id = vango.UseState(1)
		rendered = append(rendered, UseSelectorCreator(func(n int) func(todosState) string {
			creates++
			return selectTodo(n)
		}, id.Get()))
		return nil
	})
	app := vdom.Func(func() *vdom.VNode {
		return Provider[todosState](store, child)
	})
	root := mount(t, vdom.Mount(app))

	id.Set(2)
	flush(t, root)

	if len(rendered) != 2 || rendered[0] != "write" || rendered[1] != "test" {
		t.Errorf("rendered = %v, want [write test]", rendered)
	}
	if creates != 2 {
		t.Errorf("creator ran %d times, want 2", creates)
	}
}
