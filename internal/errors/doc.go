// Package errors provides structured, coded error messages for reflex.
//
// Every error carries a short code (e.g. "E101") that maps to a category,
// a one-line message, a longer explanation and a documentation link.
// Configuration errors raised while rendering (a hook used outside a
// Provider) are panicked with a *ReflexError so the offending subtree
// aborts with a descriptive message.
//
// # Error Categories
//
//   - runtime: hook misuse inside the component runtime
//   - config: missing or mismatched Provider
//   - hydration: initial-state snapshot could not be merged
//   - action: producer dispatch failures
//   - snapshot: snapshot loading and saving
//
// # Usage
//
//	err := errors.New("E101").
//	    WithSuggestion("Wrap the component tree in reflex.Provider(producer, ...)")
//
//	fmt.Println(err.Format())
package errors
