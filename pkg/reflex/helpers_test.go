package reflex

import (
	"testing"

	"github.com/vango-dev/reflex/pkg/producer"
	"github.com/vango-dev/reflex/pkg/runtime"
	"github.com/vango-dev/reflex/pkg/vdom"
)

type counterState struct {
	Count int    `json:"count"`
	Label string `json:"label"`
}

func selectCount(s counterState) int          { return s.Count }
func selectDouble(s counterState) int         { return s.Count * 2 }
func selectLabel(s counterState) string       { return s.Label }
func selectBox(s counterState) *countBox      { return &countBox{N: s.Count} }
func selectState(s counterState) counterState { return s }
func selectLabels(s counterState) []string    { return []string{s.Label} }

type countBox struct {
	N int
}

func newStore() *producer.Producer[counterState] {
	return producer.New(counterState{Label: "clicks"},
		producer.WithName[counterState]("counter"),
		producer.WithActions(map[string]producer.Action[counterState]{
			"increment": func(s counterState, _ ...any) counterState {
				s.Count++
				return s
			},
			"rename": func(s counterState, args ...any) counterState {
				s.Label = args[0].(string)
				return s
			},
		}),
	)
}

// plainStore is a Store without a change counter.
type plainStore struct {
	p *producer.Producer[counterState]
}

func (s plainStore) GetState() counterState                 { return s.p.GetState() }
func (s plainStore) SetState(state counterState)            { s.p.SetState(state) }
func (s plainStore) Patch(partial any) error                { return s.p.Patch(partial) }
func (s plainStore) Subscribe(fn func(counterState)) func() { return s.p.Subscribe(fn) }

func mount(t *testing.T, node *vdom.VNode) *runtime.Root {
	t.Helper()
	root, err := runtime.Mount(node)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	t.Cleanup(root.Unmount)
	return root
}

func flush(t *testing.T, root *runtime.Root) {
	t.Helper()
	if err := root.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

// mustPanic runs fn and returns the recovered value as an error.
func mustPanic(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		e, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %v is not an error", r)
		}
		err = e
	}()
	fn()
	return nil
}
