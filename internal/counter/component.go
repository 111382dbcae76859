package counter

import (
	"github.com/vango-dev/reflex/pkg/producer"
	"github.com/vango-dev/reflex/pkg/reflex"
	"github.com/vango-dev/reflex/pkg/vdom"
)

// Element ids rendered by Counter.
const (
	IDCount  = "count"
	IDButton = "counter"
	IDReset  = "reset"
)

func selectCount(s State) int { return s.Count }
func selectStep(s State) int  { return s.Step }

// Counter renders the count with a button that increments on click and
// decrements on right click. It must be rendered below a Provider holding
// the counter producer.
func Counter() vdom.Component {
	return vdom.Func(func() *vdom.VNode {
		count := reflex.UseSelector(selectCount)
		step := reflex.UseSelector(selectStep)
		store := reflex.UseProducerAs[*producer.Producer[State]]()

		return vdom.Div(vdom.Class("counter"),
			vdom.Span(vdom.ID(IDCount), vdom.Textf("%d", count)),
			vdom.Button(vdom.ID(IDButton),
				vdom.OnClick(dispatch(store, ActionIncrement)),
				vdom.OnContextMenu(dispatch(store, ActionDecrement)),
				vdom.Textf("±%d", step),
			),
			vdom.Button(vdom.ID(IDReset),
				vdom.OnClick(dispatch(store, ActionReset)),
				vdom.Text("reset"),
			),
		)
	})
}

// App wraps Counter in a Provider for store, hydrated from initial when it
// is non-nil.
func App(store *producer.Producer[State], initial any) *vdom.VNode {
	return reflex.ProviderWithState[State](store, initial, Counter())
}

// dispatch adapts a bound action to an event handler. Bind logs failures.
func dispatch(store *producer.Producer[State], action string) func() {
	run := store.Bind(action)
	return func() { _ = run() }
}
