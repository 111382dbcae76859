// Package devtools serves an HTTP inspector for a producer.
//
// The inspector exposes the producer's state and actions as JSON and
// streams every state change over a websocket:
//
//	GET  /state           current state
//	GET  /actions         registered action names
//	POST /actions/{name}  dispatch; the body is an optional JSON array of arguments
//	POST /reset           reset to the initial state
//	GET  /ws              websocket state stream
//
// Each websocket connection holds one producer subscription for its
// lifetime. The first message carries the current state; later messages
// carry each change. Clients may send {"action": "...", "args": [...]}
// frames to dispatch.
//
// # Usage
//
//	store := counter.NewProducer(logger)
//	tools := devtools.New(devtools.Inspect(store))
//	defer tools.Close()
//
//	r := chi.NewRouter()
//	r.Mount("/_reflex", tools.Handler())
//	http.ListenAndServe("localhost:7070", r)
package devtools
