package reflex

import (
	"fmt"
	"reflect"

	"github.com/vango-dev/reflex/internal/errors"
)

// UseProducer returns the store published by the nearest Provider.
// It panics with E101 when no Provider is rendered above the calling
// component and with E103 when the Provider's store has another state type.
//
// This is a hook and MUST be called unconditionally during render.
func UseProducer[S any]() Store[S] {
	return UseProducerAs[Store[S]]()
}

// UseProducerAs is UseProducer narrowed to a concrete producer type, for
// components that dispatch actions:
//
//	counter := reflex.UseProducerAs[*producer.Producer[State]]()
//	increment := counter.Bind("increment")
func UseProducerAs[P any]() P {
	raw, ok := ProducerContext.Lookup()
	if !ok || raw == nil {
		panic(errors.New("E101"))
	}
	p, ok := raw.(P)
	if !ok {
		want := reflect.TypeOf((*P)(nil)).Elem()
		panic(errors.New("E103").WithDetail(fmt.Sprintf("wanted %s, Provider holds %T", want, raw)))
	}
	return p
}
