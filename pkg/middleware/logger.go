package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/reflex/pkg/producer"
)

// Logger logs every dispatched action at Debug with its duration, and
// failed dispatches at Error. A nil logger uses slog.Default().
func Logger(logger *slog.Logger) producer.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next producer.Dispatcher) producer.Dispatcher {
		return func(ctx context.Context, info producer.ActionInfo) error {
			start := time.Now()
			err := next(ctx, info)
			duration := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "action failed",
					"producer", info.Producer,
					"action", info.Name,
					"args", len(info.Args),
					"duration", duration,
					"error", err,
				)
				return err
			}

			logger.DebugContext(ctx, "action",
				"producer", info.Producer,
				"action", info.Name,
				"args", len(info.Args),
				"duration", duration,
			)
			return nil
		}
	}
}
