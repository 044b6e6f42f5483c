// Package metrics provides Prometheus metrics for the insights derivation core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the insights service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Core Business Metrics - derivation pipeline
	derivationsTotal   prometheus.Counter
	derivationErrors   prometheus.Counter
	derivationDuration prometheus.Histogram

	// Activity Aggregator Metrics
	calendarBuildDuration prometheus.Histogram
	eventsAggregated      prometheus.Counter
	eventsOutOfWindow     prometheus.Counter

	// Recommendation Engine Metrics
	rulesFired             *prometheus.CounterVec
	recommendationsEmitted prometheus.Counter
	recommendationsDropped prometheus.Counter

	// Snapshot Store Metrics
	snapshotWrites prometheus.Counter
	snapshotCount  prometheus.Gauge
	snapshotShards prometheus.Gauge

	// Batch Pipeline Metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueDrops       prometheus.Counter
	workerCount      prometheus.Gauge
	workerErrors     prometheus.Counter

	// Payload Generator Metrics
	payloadsGenerated prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "algomate",
		subsystem:        "insights",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	if !m.enabled {
		return m
	}

	factory := promauto.With(m.registry)

	m.derivationsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "derivations_total",
		Help:      "Total number of completed derivation runs.",
	})
	m.derivationErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "derivation_errors_total",
		Help:      "Total number of derivation runs rejected as invalid input.",
	})
	m.derivationDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "derivation_duration_seconds",
		Help:      "Wall time of a full derivation run.",
		Buckets:   m.histogramBuckets,
	})

	m.calendarBuildDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "calendar_build_duration_seconds",
		Help:      "Wall time of building the daily activity calendar.",
		Buckets:   m.histogramBuckets,
	})
	m.eventsAggregated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "activity_events_aggregated_total",
		Help:      "Activity events that fell inside the trailing window.",
	})
	m.eventsOutOfWindow = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "activity_events_out_of_window_total",
		Help:      "Activity events ignored because they fell outside the trailing window.",
	})

	m.rulesFired = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendation_rules_fired_total",
		Help:      "Recommendation rule firings by rule name.",
	}, []string{"rule"})
	m.recommendationsEmitted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_emitted_total",
		Help:      "Recommendations returned to callers after truncation.",
	})
	m.recommendationsDropped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_dropped_total",
		Help:      "Recommendations dropped by the output limit or identity de-duplication.",
	})

	m.snapshotWrites = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_writes_total",
		Help:      "Derived snapshot writes keyed by user and platform.",
	})
	m.snapshotCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_count",
		Help:      "Snapshots currently held in the in-memory store.",
	})
	m.snapshotShards = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_shards",
		Help:      "Number of shards in the snapshot store.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_queue_size",
		Help:      "Payload jobs currently queued for derivation.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_queue_capacity",
		Help:      "Configured capacity of the payload queue.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_queue_utilization",
		Help:      "Queue fill ratio between 0 and 1.",
	})
	m.queueDrops = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_queue_drops_total",
		Help:      "Payload jobs rejected because the queue was full or closed.",
	})
	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_worker_count",
		Help:      "Derivation workers currently running.",
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_worker_errors_total",
		Help:      "Derivation failures observed by batch workers.",
	})

	m.payloadsGenerated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "test_payloads_generated_total",
		Help:      "Synthetic payloads produced by the generator.",
	})

	return m
}

// Registry returns the gatherer backing the global manager, for text dumps.
func Registry() *prometheus.Registry {
	return customRegistry
}

// Package-level record functions operating on the global manager.

// RecordDerivation records one completed derivation and its duration in seconds.
func RecordDerivation(seconds float64) {
	if globalManager.enabled {
		globalManager.derivationsTotal.Inc()
		globalManager.derivationDuration.Observe(seconds)
	}
}

// RecordDerivationError records a derivation rejected as invalid input.
func RecordDerivationError() {
	if globalManager.enabled {
		globalManager.derivationErrors.Inc()
	}
}

// RecordCalendarBuild records a calendar build duration in seconds.
func RecordCalendarBuild(seconds float64) {
	if globalManager.enabled {
		globalManager.calendarBuildDuration.Observe(seconds)
	}
}

// RecordEventsAggregated counts events that landed inside the window.
func RecordEventsAggregated(n int) {
	if globalManager.enabled && n > 0 {
		globalManager.eventsAggregated.Add(float64(n))
	}
}

// RecordEventsOutOfWindow counts events ignored as outside the window.
func RecordEventsOutOfWindow(n int) {
	if globalManager.enabled && n > 0 {
		globalManager.eventsOutOfWindow.Add(float64(n))
	}
}

// RecordRuleFired counts a firing of the named recommendation rule.
func RecordRuleFired(rule string) {
	if globalManager.enabled {
		globalManager.rulesFired.WithLabelValues(rule).Inc()
	}
}

// RecordRecommendationsEmitted counts recommendations returned to the caller.
func RecordRecommendationsEmitted(n int) {
	if globalManager.enabled && n > 0 {
		globalManager.recommendationsEmitted.Add(float64(n))
	}
}

// RecordRecommendationsDropped counts recommendations cut by limit or de-dup.
func RecordRecommendationsDropped(n int) {
	if globalManager.enabled && n > 0 {
		globalManager.recommendationsDropped.Add(float64(n))
	}
}

// RecordSnapshotWrite counts one snapshot store write.
func RecordSnapshotWrite() {
	if globalManager.enabled {
		globalManager.snapshotWrites.Inc()
	}
}

// UpdateSnapshotCount sets the number of snapshots held in the store.
func UpdateSnapshotCount(n int) {
	if globalManager.enabled {
		globalManager.snapshotCount.Set(float64(n))
	}
}

// UpdateSnapshotShards sets the configured shard count of the store.
func UpdateSnapshotShards(n int) {
	if globalManager.enabled {
		globalManager.snapshotShards.Set(float64(n))
	}
}

// UpdateQueueSize sets the current batch queue depth.
func UpdateQueueSize(n int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(n))
	}
}

// UpdateQueueCapacity sets the configured batch queue capacity.
func UpdateQueueCapacity(n int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(n))
	}
}

// UpdateQueueUtilization sets the queue fill ratio (0..1).
func UpdateQueueUtilization(ratio float64) {
	if globalManager.enabled {
		globalManager.queueUtilization.Set(ratio)
	}
}

// RecordQueueDrop counts one rejected enqueue.
func RecordQueueDrop() {
	if globalManager.enabled {
		globalManager.queueDrops.Inc()
	}
}

// UpdateWorkerCount sets the number of running batch workers.
func UpdateWorkerCount(n int) {
	if globalManager.enabled {
		globalManager.workerCount.Set(float64(n))
	}
}

// RecordWorkerError counts a derivation failure seen by a batch worker.
func RecordWorkerError() {
	if globalManager.enabled {
		globalManager.workerErrors.Inc()
	}
}

// RecordPayloadGenerated counts one synthetic payload.
func RecordPayloadGenerated() {
	if globalManager.enabled {
		globalManager.payloadsGenerated.Inc()
	}
}
