package devtools

import (
	"context"

	"github.com/vango-dev/reflex/pkg/producer"
)

// Target is the producer surface the inspector reads and drives.
type Target interface {
	Name() string
	Actions() []string
	Dispatch(ctx context.Context, name string, args ...any) error
	State() any
	Reset()
	Watch(fn func(state any)) (unsubscribe func())
}

type producerTarget[S any] struct {
	p *producer.Producer[S]
}

// Inspect adapts p to a Target.
func Inspect[S any](p *producer.Producer[S]) Target {
	return producerTarget[S]{p: p}
}

func (t producerTarget[S]) Name() string      { return t.p.Name() }
func (t producerTarget[S]) Actions() []string { return t.p.Actions() }
func (t producerTarget[S]) State() any        { return t.p.GetState() }
func (t producerTarget[S]) Reset()            { t.p.ResetState() }

func (t producerTarget[S]) Dispatch(ctx context.Context, name string, args ...any) error {
	return t.p.Dispatch(ctx, name, args...)
}

func (t producerTarget[S]) Watch(fn func(state any)) func() {
	return t.p.Subscribe(func(s S) { fn(s) })
}
