package producer

import "log/slog"

// Option configures a Producer.
type Option[S any] func(*Producer[S])

// WithActions registers named actions. Later registrations of the same name
// replace earlier ones.
func WithActions[S any](actions map[string]Action[S]) Option[S] {
	return func(p *Producer[S]) {
		for name, action := range actions {
			p.actions[name] = action
		}
	}
}

// WithMiddleware appends middleware to the dispatch chain. The first
// middleware is the outermost.
func WithMiddleware[S any](mw ...Middleware) Option[S] {
	return func(p *Producer[S]) {
		p.middleware = append(p.middleware, mw...)
	}
}

// WithLogger sets the producer's logger. Defaults to slog.Default().
func WithLogger[S any](logger *slog.Logger) Option[S] {
	return func(p *Producer[S]) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithName names the producer in logs, metrics and traces.
func WithName[S any](name string) Option[S] {
	return func(p *Producer[S]) {
		if name != "" {
			p.name = name
		}
	}
}
