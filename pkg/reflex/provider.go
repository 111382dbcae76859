package reflex

import (
	"github.com/vango-dev/reflex/internal/errors"
	"github.com/vango-dev/reflex/pkg/vango"
	"github.com/vango-dev/reflex/pkg/vdom"
)

type providerComponent[S any] struct {
	store    Store[S]
	initial  any
	children []any
}

// Render implements vdom.Component.
func (p *providerComponent[S]) Render() *vdom.VNode {
	store, initial := p.store, p.initial

	// Runs once, during the first render, before any child renders.
	vango.UseMemo(func() bool {
		if initial == nil {
			return false
		}
		if err := store.Patch(initial); err != nil {
			panic(errors.New("E102").Wrap(err))
		}
		return true
	}, []any{})

	ProducerContext.Set(store)
	return vdom.Fragment(p.children...)
}

// Provider makes store available to every component rendered in children.
func Provider[S any](store Store[S], children ...any) *vdom.VNode {
	return ProviderWithState(store, nil, children...)
}

// ProviderWithState is Provider with a hydration snapshot. On the Provider's
// first render the top-level fields of initial are merged over the store's
// state, so children never observe the state from before hydration. Later
// renders never hydrate again, whatever snapshot they carry. A snapshot that
// cannot be merged panics with E102.
func ProviderWithState[S any](store Store[S], initial any, children ...any) *vdom.VNode {
	return vdom.Mount(&providerComponent[S]{
		store:    store,
		initial:  initial,
		children: children,
	})
}
