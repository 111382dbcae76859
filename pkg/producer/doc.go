// Package producer implements a single-store state container updated through
// named actions.
//
// A Producer holds the current state, the initial state it was created with,
// a registry of actions, and an ordered list of listeners. Every state change
// notifies the listeners synchronously, in subscription order, with the new
// state.
//
//	counter := producer.New(CounterState{},
//	    producer.WithName("counter"),
//	    producer.WithActions(map[string]producer.Action[CounterState]{
//	        "increment": func(s CounterState, _ ...any) CounterState {
//	            s.Count++
//	            return s
//	        },
//	    }),
//	)
//
//	unsubscribe := counter.Subscribe(func(s CounterState) { ... })
//	defer unsubscribe()
//
//	err := counter.Dispatch(ctx, "increment")
//
// Dispatch runs through the middleware chain. Actions are pure functions of
// the state and their arguments; they run under the producer lock and must
// not call back into the producer.
package producer
