package devtools

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// client is one websocket connection. Messages queue in pending and are
// written by a single goroutine. A queued state message is replaced by a
// newer one, so a slow client only ever sees the latest state.
type client struct {
	id   string
	conn *websocket.Conn

	mu      sync.Mutex
	pending []Message
	seeded  bool
	wake    chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{id: uuid.NewString(), conn: conn, wake: make(chan struct{}, 1)}
}

func (c *client) push(msg Message) {
	c.mu.Lock()
	c.enqueue(msg)
	c.mu.Unlock()
	c.signal()
}

// seed queues the initial state unless a change notification already
// queued a newer one.
func (c *client) seed(msg Message) {
	c.mu.Lock()
	if !c.seeded {
		c.enqueue(msg)
	}
	c.mu.Unlock()
	c.signal()
}

// enqueue requires c.mu.
func (c *client) enqueue(msg Message) {
	c.seeded = true
	msg.Client = c.id
	if n := len(c.pending); msg.Type == MessageState && n > 0 && c.pending[n-1].Type == MessageState {
		c.pending[n-1] = msg
		return
	}
	c.pending = append(c.pending, msg)
}

func (c *client) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *client) take() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := c.pending
	c.pending = nil
	return msgs
}

// writeLoop writes queued messages until done is closed or a write fails.
func (c *client) writeLoop(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-c.wake:
		}
		for _, msg := range c.take() {
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.conn.Close()
				return
			}
		}
	}
}
