// Package metrics provides Prometheus metrics for the proptracker engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace string
	subsystem string
	registry  prometheus.Registerer

	// Feed ingestion
	rowsNormalized prometheus.Counter
	rowsDropped    *prometheus.CounterVec

	// Polling
	pollTicks    *prometheus.CounterVec
	pollNoops    *prometheus.CounterVec
	pollFailures *prometheus.CounterVec
	pollApplies  *prometheus.CounterVec
	feedDegraded *prometheus.GaugeVec

	// Reconciliation and ledger
	reconcilePasses  prometheus.Counter
	reconcileChanges prometheus.Counter
	slipsTracked     prometheus.Counter
	slipsSwept       prometheus.Counter
	ledgerSize       prometheus.Gauge
	storageErrors    prometheus.Counter

	// Live store
	liveEntities *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "proptracker",
		subsystem: "engine",
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
	}
	gaugeOpts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
	}

	m.rowsNormalized = prometheus.NewCounter(factory("rows_normalized_total", "Feed rows normalized into PropRecords"))
	m.rowsDropped = prometheus.NewCounterVec(factory("rows_dropped_total", "Feed rows dropped during normalization"), []string{"reason"})

	m.pollTicks = prometheus.NewCounterVec(factory("poll_ticks_total", "Poll ticks issued"), []string{"feed"})
	m.pollNoops = prometheus.NewCounterVec(factory("poll_noops_total", "Poll ticks suppressed by unchanged fingerprint"), []string{"feed"})
	m.pollFailures = prometheus.NewCounterVec(factory("poll_failures_total", "Poll fetch failures"), []string{"feed"})
	m.pollApplies = prometheus.NewCounterVec(factory("poll_applies_total", "Poll payloads applied downstream"), []string{"feed"})
	m.feedDegraded = prometheus.NewGaugeVec(gaugeOpts("feed_degraded", "1 when a feed has hit consecutive fetch failures"), []string{"feed"})

	m.reconcilePasses = prometheus.NewCounter(factory("reconcile_passes_total", "Ledger reconciliation passes"))
	m.reconcileChanges = prometheus.NewCounter(factory("reconcile_changes_total", "Reconciliation passes that changed ledger state"))
	m.slipsTracked = prometheus.NewCounter(factory("slips_tracked_total", "Parlay slips added to the ledger"))
	m.slipsSwept = prometheus.NewCounter(factory("slips_swept_total", "Fully-settled parlay slips removed by the sweeper"))
	m.ledgerSize = prometheus.NewGauge(gaugeOpts("ledger_size", "Currently tracked parlay slips"))
	m.storageErrors = prometheus.NewCounter(factory("storage_errors_total", "Durable storage read/write failures"))

	m.liveEntities = prometheus.NewGaugeVec(gaugeOpts("live_entities", "Entities currently held by the live store"), []string{"kind"})

	m.httpRequests = prometheus.NewCounterVec(factory("http_requests_total", "HTTP requests received"), []string{"endpoint", "method", "status"})
	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = prometheus.NewGauge(gaugeOpts("system_memory_bytes", "Allocated heap bytes"))
	m.systemGoroutineCount = prometheus.NewGauge(gaugeOpts("system_goroutines", "Current goroutine count"))

	m.registry.MustRegister(
		m.rowsNormalized, m.rowsDropped,
		m.pollTicks, m.pollNoops, m.pollFailures, m.pollApplies, m.feedDegraded,
		m.reconcilePasses, m.reconcileChanges, m.slipsTracked, m.slipsSwept, m.ledgerSize, m.storageErrors,
		m.liveEntities,
		m.httpRequests, m.httpRequestDuration,
		m.systemMemoryUsage, m.systemGoroutineCount,
	)
}

// GetRegistry returns the custom registry used for exposition.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording through the global manager.

func RecordRowsNormalized(n int) { globalManager.rowsNormalized.Add(float64(n)) }

func RecordRowsDropped(reason string, n int) {
	globalManager.rowsDropped.WithLabelValues(reason).Add(float64(n))
}

func RecordPollTick(feed string)    { globalManager.pollTicks.WithLabelValues(feed).Inc() }
func RecordPollNoop(feed string)    { globalManager.pollNoops.WithLabelValues(feed).Inc() }
func RecordPollFailure(feed string) { globalManager.pollFailures.WithLabelValues(feed).Inc() }
func RecordPollApply(feed string)   { globalManager.pollApplies.WithLabelValues(feed).Inc() }

func SetFeedDegraded(feed string, degraded bool) {
	v := 0.0
	if degraded {
		v = 1.0
	}
	globalManager.feedDegraded.WithLabelValues(feed).Set(v)
}

func RecordReconcilePass()   { globalManager.reconcilePasses.Inc() }
func RecordReconcileChange() { globalManager.reconcileChanges.Inc() }
func RecordSlipTracked()     { globalManager.slipsTracked.Inc() }

func RecordSlipsSwept(n int) { globalManager.slipsSwept.Add(float64(n)) }

func UpdateLedgerSize(n int) { globalManager.ledgerSize.Set(float64(n)) }

func RecordStorageError() { globalManager.storageErrors.Inc() }

func UpdateLiveEntities(kind string, n int) {
	globalManager.liveEntities.WithLabelValues(kind).Set(float64(n))
}

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

func UpdateSystemGoroutineCount(n int) { globalManager.systemGoroutineCount.Set(float64(n)) }
