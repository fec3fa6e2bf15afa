// Package metrics provides a Prometheus implementation of
// ripple.MetricsProvider.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zoobzio/ripple"
)

// Config configures the Prometheus provider.
type Config struct {
	// Namespace is the metrics namespace (default: "ripple").
	Namespace string

	// Subsystem is the metrics subsystem (default: "validator").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for check duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus provider.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "ripple",
		Subsystem: "validator",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Provider records validator activity as Prometheus metrics.
type Provider struct {
	checksStarted   prometheus.Counter
	checksCompleted *prometheus.CounterVec
	checksDiscarded prometheus.Counter
	valuesDropped   prometheus.Counter
	checkDuration   *prometheus.HistogramVec
	transitions     *prometheus.CounterVec
	state           *prometheus.GaugeVec
}

// New creates a Provider and registers its collectors.
func New(opts ...Option) *Provider {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Provider{
		checksStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "checks_started_total",
			Help:        "Total number of availability checks started",
			ConstLabels: config.ConstLabels,
		}),

		checksCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "checks_completed_total",
			Help:        "Total number of availability check results applied",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		checksDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "checks_discarded_total",
			Help:        "Total number of superseded check results discarded",
			ConstLabels: config.ConstLabels,
		}),

		valuesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "values_dropped_total",
			Help:        "Total number of debounced values dropped as repeats",
			ConstLabels: config.ConstLabels,
		}),

		checkDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "check_duration_seconds",
			Help:        "Availability check duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"result"}),

		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "state_transitions_total",
			Help:        "Total number of validator state transitions",
			ConstLabels: config.ConstLabels,
		}, []string{"from", "to"}),

		state: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "state",
			Help:        "1 for the validator's current state, 0 otherwise",
			ConstLabels: config.ConstLabels,
		}, []string{"state"}),
	}
}

// OnStateChange implements ripple.MetricsProvider.
func (p *Provider) OnStateChange(from, to ripple.State) {
	p.transitions.WithLabelValues(from.String(), to.String()).Inc()
	p.state.WithLabelValues(from.String()).Set(0)
	p.state.WithLabelValues(to.String()).Set(1)
}

// OnCheckStarted implements ripple.MetricsProvider.
func (p *Provider) OnCheckStarted() {
	p.checksStarted.Inc()
}

// OnCheckCompleted implements ripple.MetricsProvider.
func (p *Provider) OnCheckCompleted(result ripple.Availability, duration time.Duration) {
	p.checksCompleted.WithLabelValues(result.String()).Inc()
	p.checkDuration.WithLabelValues(result.String()).Observe(duration.Seconds())
}

// OnCheckDiscarded implements ripple.MetricsProvider.
func (p *Provider) OnCheckDiscarded() {
	p.checksDiscarded.Inc()
}

// OnValueDropped implements ripple.MetricsProvider.
func (p *Provider) OnValueDropped() {
	p.valuesDropped.Inc()
}

var _ ripple.MetricsProvider = (*Provider)(nil)
