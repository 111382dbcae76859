package middleware

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/reflex/internal/errors"
	"github.com/vango-dev/reflex/pkg/producer"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reflex").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for action duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "reflex",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for producer actions.
type Metrics struct {
	config MetricsConfig

	actionsTotal   *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
	actionErrors   *prometheus.CounterVec
}

// NewMetrics registers the action collectors with the configured registry.
// Registering twice with the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		config: config,

		actionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "actions_total",
			Help:        "Total number of dispatched producer actions",
			ConstLabels: config.ConstLabels,
		}, []string{"producer", "action", "status"}),

		actionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "action_duration_seconds",
			Help:        "Action dispatch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"producer", "action"}),

		actionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "action_errors_total",
			Help:        "Total number of failed action dispatches",
			ConstLabels: config.ConstLabels,
		}, []string{"producer", "action", "error_type"}),
	}
}

// Middleware returns the producer middleware recording into m.
func (m *Metrics) Middleware() producer.Middleware {
	return func(next producer.Dispatcher) producer.Dispatcher {
		return func(ctx context.Context, info producer.ActionInfo) error {
			start := time.Now()
			err := next(ctx, info)
			m.actionDuration.WithLabelValues(info.Producer, info.Name).Observe(time.Since(start).Seconds())

			status := "success"
			if err != nil {
				status = "error"
				m.actionErrors.WithLabelValues(info.Producer, info.Name, categorizeError(err)).Inc()
			}
			m.actionsTotal.WithLabelValues(info.Producer, info.Name, status).Inc()
			return err
		}
	}
}

// TrackListeners registers a gauge reporting count() as the number of
// listeners of the named producer.
func (m *Metrics) TrackListeners(name string, count func() int) {
	labels := prometheus.Labels{"producer": name}
	for k, v := range m.config.ConstLabels {
		labels[k] = v
	}
	promauto.With(m.config.Registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   m.config.Namespace,
		Subsystem:   m.config.Subsystem,
		Name:        "listeners",
		Help:        "Number of listeners subscribed to a producer",
		ConstLabels: labels,
	}, func() float64 { return float64(count()) })
}

// Prometheus creates middleware that collects Prometheus metrics for
// dispatched actions. It is NewMetrics(opts...).Middleware().
func Prometheus(opts ...MetricsOption) producer.Middleware {
	return NewMetrics(opts...).Middleware()
}

// categorizeError returns a bounded label for err.
func categorizeError(err error) string {
	switch {
	case stderrors.Is(err, producer.ErrUnknownAction):
		return "unknown_action"
	case stderrors.Is(err, producer.ErrDestroyed):
		return "destroyed"
	case stderrors.Is(err, context.Canceled):
		return "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	var re *errors.ReflexError
	if stderrors.As(err, &re) && re.Category != "" {
		return string(re.Category)
	}
	return "internal"
}
