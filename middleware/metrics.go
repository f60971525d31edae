package middleware

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/dispatch"
	"github.com/iaconlabs/warpcore/router"
	"github.com/iaconlabs/warpcore/serdes"
)

// MetricsConfig configures the Prometheus filter.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "warpcore").
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

// MetricsOption configures the Prometheus filter.
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
		Namespace: "warpcore",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type metrics struct {
	actionsTotal   *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
	actionErrors   *prometheus.CounterVec
	inFlight       prometheus.Gauge
}

func newMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		actionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "actions_total",
			Help:        "Total number of dispatched actions by route, method and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		actionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "action_duration_seconds",
			Help:        "Action duration in seconds, filters below this one included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route", "method"}),

		actionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "action_errors_total",
			Help:        "Total number of actions failing with an error",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "actions_in_flight",
			Help:        "Number of actions currently executing",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus returns a filter collecting per-route metrics:
//   - warpcore_actions_total: counter by route, method and status ("error" on failure)
//   - warpcore_action_duration_seconds: histogram by route and method
//   - warpcore_action_errors_total: counter by route and error category
//   - warpcore_actions_in_flight: gauge
//
// The route label is the matcher pattern, or "unmatched". The collectors are
// registered on creation, so call Prometheus once per registry.
func Prometheus(opts ...MetricsOption) Func {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	m := newMetrics(config)

	return func(c action.Context, next action.Function, route *router.Route) (action.Result, error) {
		label := routeLabel(route)
		method := c.Request().Method

		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		res, err := next(c)
		m.actionDuration.WithLabelValues(label, method).Observe(time.Since(start).Seconds())

		status := "error"
		if err != nil {
			m.actionErrors.WithLabelValues(label, categorizeError(err)).Inc()
		} else {
			status = strconv.Itoa(res.Status())
		}
		m.actionsTotal.WithLabelValues(label, method, status).Inc()
		return res, err
	}
}

// categorizeError maps an error to a low-cardinality label.
func categorizeError(err error) string {
	var (
		panicErr      *dispatch.PanicError
		validationErr *serdes.ValidationError
		conversionErr *serdes.ConversionError
		paramErr      *action.ParameterError
	)
	switch {
	case errors.As(err, &panicErr):
		return "panic"
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &conversionErr):
		return "conversion"
	case errors.As(err, &paramErr):
		return "parameter"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "internal"
	}
}
