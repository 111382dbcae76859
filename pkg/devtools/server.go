package devtools

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/reflex/pkg/producer"
)

// maxBody caps dispatch request bodies.
const maxBody = 1 << 20

// Server is the devtools HTTP inspector for one producer.
type Server struct {
	target   Target
	logger   *slog.Logger
	upgrader websocket.Upgrader
	router   chi.Router

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// New creates a Server inspecting target.
func New(target Target, opts ...Option) *Server {
	s := &Server{
		target:  target,
		logger:  slog.Default(),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/state", s.handleState)
	r.Get("/actions", s.handleActions)
	r.Post("/actions/{name}", s.handleDispatch)
	r.Post("/reset", s.handleReset)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// Handler returns the inspector's router. Mount it under a prefix with
// chi's Mount or http.StripPrefix.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("devtools request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{Producer: s.target.Name(), State: s.target.State()})
}

func (s *Server) handleActions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, actionsResponse{Producer: s.target.Name(), Actions: s.target.Actions()})
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	args, err := decodeArgs(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.target.Dispatch(r.Context(), name, args...); err != nil {
		writeJSON(w, dispatchStatus(err), errorResponse{Error: err.Error()})
		return
	}
	s.handleState(w, r)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.target.Reset()
	s.handleState(w, r)
}

// dispatchStatus maps a dispatch error to an HTTP status.
func dispatchStatus(err error) int {
	switch {
	case stderrors.Is(err, producer.ErrUnknownAction):
		return http.StatusNotFound
	case stderrors.Is(err, producer.ErrDestroyed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("devtools websocket upgrade failed", "error", err)
		return
	}

	c := newClient(conn)
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("devtools client connected", "client", c.id, "remote", r.RemoteAddr)

	name := s.target.Name()
	unsubscribe := s.target.Watch(func(state any) {
		c.push(Message{Type: MessageState, Producer: name, State: state})
	})
	c.seed(Message{Type: MessageState, Producer: name, State: s.target.State()})

	done := make(chan struct{})
	go c.writeLoop(done)

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			break
		}
		s.runCommand(r, c, cmd)
	}

	unsubscribe()
	close(done)
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	conn.Close()
	s.logger.Debug("devtools client disconnected", "client", c.id)
}

func (s *Server) runCommand(r *http.Request, c *client, cmd Command) {
	fail := func(err error) {
		c.push(Message{Type: MessageError, Producer: s.target.Name(), Action: cmd.Action, Error: err.Error()})
	}

	args, err := decodeArgs(cmd.Args)
	if err != nil {
		fail(err)
		return
	}
	if err := s.target.Dispatch(r.Context(), cmd.Action, args...); err != nil {
		fail(err)
	}
}

// ClientCount returns the number of connected websocket clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close closes every websocket connection. Their subscriptions are
// released as the connection handlers return.
func (s *Server) Close() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		c.conn.Close()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
