package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures Metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "corewasm").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to every metric.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for frame duration.
	Buckets []float64

	// Registry is the registerer to register metrics against. Default:
	// prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures a MetricsConfig.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(ns string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = ns }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(sub string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = sub }
}

// WithConstLabels sets constant labels applied to every metric.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets overrides the frame-duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registerer.
func WithRegistry(reg prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = reg }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "corewasm",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for one app instance's
// lifecycle. A nil *Metrics is valid everywhere its methods are called —
// every method is a no-op on a nil receiver.
type Metrics struct {
	framesTotal    *prometheus.CounterVec
	frameDuration  *prometheus.HistogramVec
	patchBytes     prometheus.Histogram
	eventsTotal    *prometheus.CounterVec
	eventErrors    prometheus.Counter
	effectsRun     prometheus.Counter
	dirtyScopes    prometheus.Histogram
}

// NewMetrics registers a fresh collector set, configured by opts.
//
// Example:
//
//	m := telemetry.NewMetrics(telemetry.WithNamespace("myapp"))
//	a := app.New("root", shape, view, log)
//	app.WithMetrics(m)(a)
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Metrics{
		framesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "frames_total",
			Help:        "Total number of render frames produced, by lifecycle op (init, rebuild, flush).",
			ConstLabels: cfg.ConstLabels,
		}, []string{"op"}),

		frameDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "frame_duration_seconds",
			Help:        "Wall time spent producing one frame, by lifecycle op.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"op"}),

		patchBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "patch_bytes",
			Help:        "Size in bytes of each emitted mutation patch.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     []float64{32, 128, 512, 2048, 8192, 32768, 131072},
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "events_total",
			Help:        "Total number of dispatched handler events, by whether they fired.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"fired"}),

		eventErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "event_errors_total",
			Help:        "Total number of dispatches that fired no action (unknown handlers, filtered keys, NONE/CUSTOM handlers).",
			ConstLabels: cfg.ConstLabels,
		}),

		effectsRun: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "effects_run_total",
			Help:        "Total number of effect bodies run by DrainEffects.",
			ConstLabels: cfg.ConstLabels,
		}),

		dirtyScopes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "dirty_scopes_per_flush",
			Help:        "Number of scopes drained from the scheduler per Flush call.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     []float64{1, 2, 4, 8, 16, 32, 64},
		}),
	}
}

// ObserveFrame records one lifecycle op's duration and emitted patch size.
func (m *Metrics) ObserveFrame(op string, seconds float64, bytes int) {
	if m == nil {
		return
	}
	m.framesTotal.WithLabelValues(op).Inc()
	m.frameDuration.WithLabelValues(op).Observe(seconds)
	m.patchBytes.Observe(float64(bytes))
}

// ObserveEvent records one dispatch attempt.
func (m *Metrics) ObserveEvent(fired bool) {
	if m == nil {
		return
	}
	label := "false"
	if fired {
		label = "true"
	}
	m.eventsTotal.WithLabelValues(label).Inc()
	if !fired {
		m.eventErrors.Inc()
	}
}

// ObserveEffectsRun records n effect bodies executed by one DrainEffects call.
func (m *Metrics) ObserveEffectsRun(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.effectsRun.Add(float64(n))
}

// ObserveDirtyScopes records how many scopes one Flush call drained.
func (m *Metrics) ObserveDirtyScopes(n int) {
	if m == nil {
		return
	}
	m.dirtyScopes.Observe(float64(n))
}
