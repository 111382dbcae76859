package producer

import (
	"context"
	"fmt"
	"sort"

	"github.com/vango-dev/reflex/internal/errors"
)

// Action computes the next state from the current state and the dispatch
// arguments.
type Action[S any] func(state S, args ...any) S

// ActionInfo describes one dispatch as it travels through middleware.
type ActionInfo struct {
	// Producer is the name of the dispatching producer.
	Producer string

	// Name is the action name.
	Name string

	// Args are the dispatch arguments.
	Args []any
}

// Dispatcher runs an action.
type Dispatcher func(ctx context.Context, info ActionInfo) error

// Middleware wraps a Dispatcher. It may inspect or reject the action, or act
// after next returns.
type Middleware func(next Dispatcher) Dispatcher

// Dispatch runs the named action through the middleware chain.
// It fails with ErrUnknownAction for an unregistered name and with
// ErrDestroyed after Destroy.
func (p *Producer[S]) Dispatch(ctx context.Context, name string, args ...any) error {
	if p.IsDestroyed() {
		return errors.New("E202").WithDetail(fmt.Sprintf("producer %q rejected action %q", p.name, name))
	}
	return p.dispatch(ctx, ActionInfo{Producer: p.name, Name: name, Args: args})
}

// Bind returns a function that dispatches the named action with a
// background context. Errors are logged and returned.
func (p *Producer[S]) Bind(name string) func(args ...any) error {
	return func(args ...any) error {
		err := p.Dispatch(context.Background(), name, args...)
		if err != nil {
			p.logger.Error("action failed", "producer", p.name, "action", name, "error", err)
		}
		return err
	}
}

// Actions returns the registered action names, sorted.
func (p *Producer[S]) Actions() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.actions))
	for name := range p.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasAction reports whether name is registered.
func (p *Producer[S]) HasAction(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.actions[name]
	return ok
}

// buildChain composes the middleware around the base dispatcher.
func (p *Producer[S]) buildChain() Dispatcher {
	d := p.apply
	for i := len(p.middleware) - 1; i >= 0; i-- {
		d = p.middleware[i](d)
	}
	return d
}

// apply is the innermost dispatcher: it looks the action up and applies it.
func (p *Producer[S]) apply(_ context.Context, info ActionInfo) error {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return errors.New("E202").WithDetail(fmt.Sprintf("producer %q rejected action %q", p.name, info.Name))
	}
	action, ok := p.actions[info.Name]
	if !ok {
		p.mu.Unlock()
		return errors.New("E201").WithDetail(fmt.Sprintf("producer %q has no action %q", p.name, info.Name))
	}

	next := action(p.state, info.Args...)
	listeners := p.replaceLocked(next)
	p.mu.Unlock()

	notify(listeners, next)
	return nil
}
