package devtools

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MessageType identifies a websocket message.
type MessageType string

const (
	MessageState MessageType = "state"
	MessageError MessageType = "error"
)

// Message is sent to websocket clients. Client is the connection's id,
// assigned on upgrade.
type Message struct {
	Type     MessageType `json:"type"`
	Client   string      `json:"client"`
	Producer string      `json:"producer"`
	State    any         `json:"state,omitempty"`
	Action   string      `json:"action,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// Command is received from websocket clients.
type Command struct {
	Action string          `json:"action"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// stateResponse is the body of GET /state and successful dispatches.
type stateResponse struct {
	Producer string `json:"producer"`
	State    any    `json:"state"`
}

type actionsResponse struct {
	Producer string   `json:"producer"`
	Actions  []string `json:"actions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// decodeArgs parses a JSON array of action arguments. Integral numbers
// decode as int, other numbers as float64. Empty input means no arguments.
func decodeArgs(raw []byte) ([]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var args []any
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("devtools: args must be a JSON array: %w", err)
	}
	for i, a := range args {
		n, ok := a.(json.Number)
		if !ok {
			continue
		}
		if v, err := n.Int64(); err == nil {
			args[i] = int(v)
		} else if f, err := n.Float64(); err == nil {
			args[i] = f
		}
	}
	return args, nil
}
