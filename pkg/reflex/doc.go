// Package reflex binds a producer to a vango component tree.
//
// A Provider publishes a store to every component rendered below it and can
// hydrate the store once from a state snapshot before its children render.
// Components read the store with UseProducer and derive values from it with
// UseSelector, which re-renders the component only when the selected value
// changes.
//
//	func App(store *producer.Producer[State]) vdom.Component {
//	    return vdom.Func(func() *vdom.VNode {
//	        return reflex.Provider[State](store, Counter())
//	    })
//	}
//
//	func Counter() vdom.Component {
//	    return vdom.Func(func() *vdom.VNode {
//	        count := reflex.UseSelector(selectCount)
//	        return vdom.Span(vdom.Textf("Count: %d", count))
//	    })
//	}
//
// Selector identity is the identity of the func value. Package-level
// functions and func literals that capture nothing keep their identity
// across renders; a capturing closure built during render is a new selector
// on every render and is re-evaluated each time.
package reflex
