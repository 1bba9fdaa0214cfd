package telemetry

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hashira-dev/hashira"
)

// MetricsConfig configures the Prometheus metrics hook.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "hashira").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics hook.
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
		Namespace: "hashira",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metricsHook collects request metrics around the dispatcher.
type metricsHook struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
}

// Metrics creates a hook that collects Prometheus metrics for every
// dispatched request.
//
// Metrics collected:
//   - hashira_requests_total: Counter of requests by method and status
//   - hashira_request_duration_seconds: Histogram of dispatch duration by method
//   - hashira_request_errors_total: Counter of error responses by method and status
//
// Example:
//
//	app := hashira.New()
//	app.Use(telemetry.Metrics(
//	    telemetry.WithNamespace("myapp"),
//	))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Metrics(opts ...MetricsOption) hashira.Hook {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	m := &metricsHook{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of requests dispatched",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Request dispatch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"method"}),

		requestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_errors_total",
			Help:        "Total number of error responses",
			ConstLabels: config.ConstLabels,
		}, []string{"method", "status"}),
	}

	return m
}

// OnHandle implements hashira.Hook.
func (m *metricsHook) OnHandle(ctx context.Context, req *hashira.Request, next hashira.HandlerFunc) *hashira.Response {
	start := time.Now()

	res := next(ctx, req)

	m.requestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	status := "0"
	if res != nil {
		status = strconv.Itoa(res.Status)
	}
	m.requestsTotal.WithLabelValues(req.Method, status).Inc()
	if res != nil && res.IsError() {
		m.requestErrors.WithLabelValues(req.Method, status).Inc()
	}

	return res
}
