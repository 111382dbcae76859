package middleware

import (
	"context"
	"fmt"

	"github.com/vango-dev/reflex/pkg/producer"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for reflex producers.
const defaultTracerName = "reflex"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "reflex").
	TracerName string

	// TracerProvider supplies the tracer. Defaults to the global provider.
	TracerProvider trace.TracerProvider

	// IncludeArgs records the formatted action arguments on the span.
	// Arguments may contain sensitive data; disabled by default.
	IncludeArgs bool

	// Filter determines which actions to trace.
	// If nil, all actions are traced.
	Filter func(info producer.ActionInfo) bool

	// AttributeExtractor adds custom attributes for each traced action.
	AttributeExtractor func(info producer.ActionInfo) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeArgs enables recording action arguments.
func WithIncludeArgs(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeArgs = include
	}
}

// WithActionFilter sets a filter function for actions.
func WithActionFilter(filter func(info producer.ActionInfo) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(info producer.ActionInfo) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that starts a span for every dispatched
// action. The span's context is passed down the chain, errors are recorded
// on the span and set its status.
func OpenTelemetry(opts ...OTelOption) producer.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}
	tracer := config.TracerProvider.Tracer(config.TracerName)

	return func(next producer.Dispatcher) producer.Dispatcher {
		return func(ctx context.Context, info producer.ActionInfo) error {
			if config.Filter != nil && !config.Filter(info) {
				return next(ctx, info)
			}

			attrs := []attribute.KeyValue{
				attribute.String("reflex.producer", info.Producer),
				attribute.String("reflex.action", info.Name),
				attribute.Int("reflex.args_count", len(info.Args)),
			}
			if config.IncludeArgs && len(info.Args) > 0 {
				args := make([]string, len(info.Args))
				for i, a := range info.Args {
					args[i] = fmt.Sprintf("%v", a)
				}
				attrs = append(attrs, attribute.StringSlice("reflex.args", args))
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(info)...)
			}

			spanCtx, span := tracer.Start(ctx,
				fmt.Sprintf("%s.%s", info.Producer, info.Name),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			err := next(spanCtx, info)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return err
		}
	}
}
