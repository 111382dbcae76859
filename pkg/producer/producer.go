package producer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// Producer is a state container updated through named actions.
type Producer[S any] struct {
	name   string
	logger *slog.Logger

	mu        sync.RWMutex
	state     S
	initial   S
	actions   map[string]Action[S]
	listeners []*listener[S]
	nextID    uint64
	version   uint64
	destroyed bool

	middleware []Middleware
	dispatch   Dispatcher
}

type listener[S any] struct {
	id uint64
	fn func(S)
}

// New creates a producer holding initial.
func New[S any](initial S, opts ...Option[S]) *Producer[S] {
	p := &Producer[S]{
		name:    "producer",
		logger:  slog.Default(),
		state:   initial,
		initial: initial,
		actions: make(map[string]Action[S]),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.dispatch = p.buildChain()
	return p
}

// Name returns the producer name.
func (p *Producer[S]) Name() string {
	return p.name
}

// GetState returns the current state.
func (p *Producer[S]) GetState() S {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// GetInitialState returns the state the producer was created with.
func (p *Producer[S]) GetInitialState() S {
	return p.initial
}

// SetState replaces the state and notifies listeners when it changed.
func (p *Producer[S]) SetState(state S) {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return
	}
	listeners := p.replaceLocked(state)
	p.mu.Unlock()

	notify(listeners, state)
}

// replaceLocked stores next and returns the listeners to notify, none when
// the state did not change. Requires p.mu.
func (p *Producer[S]) replaceLocked(next S) []*listener[S] {
	prev := p.state
	p.state = next
	if unchanged(prev, next) {
		return nil
	}
	p.version++
	return p.listeners
}

// Version counts state changes. It moves exactly when listeners are
// notified.
func (p *Producer[S]) Version() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.version
}

// ResetState restores the initial state.
func (p *Producer[S]) ResetState() {
	p.SetState(p.initial)
}

// Patch merges partial over the current state. Each top-level field of
// partial, as encoded by encoding/json, replaces the state field with the
// same JSON name; every other field keeps its value, including fields JSON
// never sees. Keys that name no field are ignored. The state must be a
// struct, a pointer to a struct or a map with string keys, and partial must
// encode as a JSON object. A partial that encodes as null is a no-op.
func (p *Producer[S]) Patch(partial any) error {
	if partial == nil {
		return nil
	}

	raw, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("producer: encode patch: %w", err)
	}
	if string(raw) == "null" {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return fmt.Errorf("producer: patch is not an object: %s", truncate(raw))
	}

	next, err := merge(p.GetState(), fields)
	if err != nil {
		return err
	}
	p.SetState(next)
	return nil
}

// Subscribe registers fn to be called with the new state after every change.
// Listeners run synchronously in subscription order. Listeners added or
// removed while a notification is running take effect from the next one.
// The returned function unsubscribes; calling it again does nothing.
func (p *Producer[S]) Subscribe(fn func(S)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return func() {}
	}

	p.nextID++
	l := &listener[S]{id: p.nextID, fn: fn}

	// Copy on write: running notifications keep their snapshot.
	listeners := make([]*listener[S], len(p.listeners), len(p.listeners)+1)
	copy(listeners, p.listeners)
	p.listeners = append(listeners, l)

	var once sync.Once
	return func() {
		once.Do(func() { p.unsubscribe(l.id) })
	}
}

func (p *Producer[S]) unsubscribe(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, l := range p.listeners {
		if l.id == id {
			listeners := make([]*listener[S], 0, len(p.listeners)-1)
			listeners = append(listeners, p.listeners[:i]...)
			listeners = append(listeners, p.listeners[i+1:]...)
			p.listeners = listeners
			return
		}
	}
}

// ListenerCount returns the number of active listeners.
func (p *Producer[S]) ListenerCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.listeners)
}

// Destroy drops every listener. Later dispatches fail with ErrDestroyed and
// SetState becomes a no-op.
func (p *Producer[S]) Destroy() {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return
	}
	p.destroyed = true
	dropped := len(p.listeners)
	p.listeners = nil
	p.mu.Unlock()

	p.logger.Debug("producer destroyed", "producer", p.name, "listeners", dropped)
}

// IsDestroyed reports whether Destroy was called.
func (p *Producer[S]) IsDestroyed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.destroyed
}

// Select returns selector applied to the current state of p.
func Select[S, T any](p *Producer[S], selector func(S) T) T {
	return selector(p.GetState())
}

func notify[S any](listeners []*listener[S], state S) {
	for _, l := range listeners {
		l.fn(state)
	}
}

// unchanged reports whether next is the same comparable value as prev.
// Non-comparable states always count as changed.
func unchanged[S any](prev, next S) bool {
	a := reflect.ValueOf(&prev).Elem()
	b := reflect.ValueOf(&next).Elem()
	return a.Comparable() && b.Comparable() && a.Equal(b)
}

func truncate(raw []byte) string {
	const limit = 64
	if len(raw) > limit {
		return string(raw[:limit]) + "..."
	}
	return string(raw)
}
