package counter

import (
	"log/slog"

	"github.com/vango-dev/reflex/pkg/producer"
)

// State is the counter's state.
type State struct {
	Count int `json:"count"`
	Step  int `json:"step"`
}

// Action names registered on the counter producer.
const (
	ActionIncrement = "increment"
	ActionDecrement = "decrement"
	ActionReset     = "reset"
	ActionSetStep   = "setStep"
)

// DefaultStep is the step of a fresh counter.
const DefaultStep = 1

// Actions returns the counter's named actions. increment and decrement move
// the count by the step, or by their first argument when it is an int.
// setStep replaces the step; reset zeroes the count and keeps the step.
func Actions() map[string]producer.Action[State] {
	return map[string]producer.Action[State]{
		ActionIncrement: func(s State, args ...any) State {
			s.Count += amount(s, args)
			return s
		},
		ActionDecrement: func(s State, args ...any) State {
			s.Count -= amount(s, args)
			return s
		},
		ActionReset: func(s State, _ ...any) State {
			s.Count = 0
			return s
		},
		ActionSetStep: func(s State, args ...any) State {
			if len(args) > 0 {
				if n, ok := args[0].(int); ok && n > 0 {
					s.Step = n
				}
			}
			return s
		},
	}
}

func amount(s State, args []any) int {
	if len(args) > 0 {
		if n, ok := args[0].(int); ok {
			return n
		}
	}
	return s.Step
}

// NewProducer creates the counter producer. opts are applied after the
// counter's own name, actions and logger.
func NewProducer(logger *slog.Logger, opts ...producer.Option[State]) *producer.Producer[State] {
	base := []producer.Option[State]{
		producer.WithName[State]("counter"),
		producer.WithActions(Actions()),
		producer.WithLogger[State](logger),
	}
	return producer.New(State{Step: DefaultStep}, append(base, opts...)...)
}
