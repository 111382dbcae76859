package reflex

// Store is the part of a producer the bindings use.
// *producer.Producer[S] implements it.
type Store[S any] interface {
	GetState() S
	SetState(state S)

	// Patch merges the top-level fields of partial over the state.
	Patch(partial any) error

	// Subscribe registers a listener called with the new state after every
	// change and returns a function that removes it.
	Subscribe(listener func(S)) (unsubscribe func())
}

// Versioned is implemented by stores that count their state changes.
// UseSelector uses the count to tell whether the store moved between
// render and subscription; other stores are compared by state identity.
type Versioned interface {
	Version() uint64
}
