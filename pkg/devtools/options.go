package devtools

import (
	"log/slog"
	"net/http"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCheckOrigin sets the websocket origin check. By default every origin
// is accepted.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}
