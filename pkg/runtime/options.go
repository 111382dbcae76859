package runtime

import (
	"log/slog"

	"github.com/vango-dev/reflex/pkg/render"
)

// DefaultMaxPasses is the number of render passes Flush runs before giving
// up on a tree that keeps marking itself dirty.
const DefaultMaxPasses = 100

// Option configures a Root.
type Option func(*Root)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Root) {
		r.logger = logger
	}
}

// WithMaxPasses overrides DefaultMaxPasses.
func WithMaxPasses(n int) Option {
	return func(r *Root) {
		if n > 0 {
			r.maxPasses = n
		}
	}
}

// WithRenderer sets the HTML renderer configuration used by HTML.
func WithRenderer(cfg render.RendererConfig) Option {
	return func(r *Root) {
		r.renderer = render.NewRenderer(cfg)
	}
}

// WithOnCommit registers a callback invoked after every Flush that rendered
// at least one instance. It runs on the flushing goroutine after the root's
// lock is released, so it may call HTML or Tree.
func WithOnCommit(fn func(*Root)) Option {
	return func(r *Root) {
		r.onCommit = append(r.onCommit, fn)
	}
}
