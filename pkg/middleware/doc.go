// Package middleware provides producer middleware for logging, metrics and
// tracing.
//
// Each constructor returns a producer.Middleware, installed with
// producer.WithMiddleware. The first middleware is the outermost, so put
// tracing first to have the span cover the others:
//
//	store := producer.New(initial,
//	    producer.WithActions(actions),
//	    producer.WithMiddleware[State](
//	        middleware.OpenTelemetry(),
//	        middleware.Prometheus(),
//	        middleware.Logger(logger),
//	    ),
//	)
//
// # Prometheus Metrics
//
// Prometheus records, per producer and action:
//   - reflex_actions_total: dispatched actions by status
//   - reflex_action_duration_seconds: dispatch duration histogram
//   - reflex_action_errors_total: failed dispatches by error type
//
// NewMetrics(...).TrackListeners adds a reflex_listeners gauge for a
// producer. Expose the registry with promhttp:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// OpenTelemetry starts one span per dispatched action and passes the span's
// context to the rest of the chain. The tracer comes from the global
// provider unless WithTracerProvider is given.
package middleware
