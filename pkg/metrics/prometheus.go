// Package metrics provides Prometheus metrics for the medalist dashboard service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Pipeline
	figuresComputed   prometheus.Counter
	figureLatency     prometheus.Histogram
	aggregateRows     prometheus.Gauge
	computationErrors prometheus.Counter

	// Table filter
	filterQueries   prometheus.Counter
	filterSkipped   prometheus.Counter
	tableRows       prometheus.Histogram
	exportsByFormat *prometheus.CounterVec
	snapshots       prometheus.Counter

	// Reference data
	datasetRecords     prometheus.Gauge
	datasetYears       prometheus.Gauge
	datasetCountries   prometheus.Gauge
	datasetSkippedRows prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out of /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "agegap",
		subsystem:        "dashboard",
		histogramBuckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.figuresComputed = m.counter("figures_computed_total", "Total number of animated figures computed")
	m.figureLatency = m.histogram("figure_compute_latency_milliseconds",
		"Latency of one full aggregate + frame build in milliseconds", m.histogramBuckets)
	m.aggregateRows = m.gauge("aggregate_rows", "Aggregate rows produced by the last computation")
	m.computationErrors = m.counter("computation_errors_total", "Computations recovered from a failure")

	m.filterQueries = m.counter("filter_queries_total", "Total number of table filter queries applied")
	m.filterSkipped = m.counter("filter_clauses_skipped_total",
		"Filter clauses ignored because they were unparseable or not applicable")
	m.tableRows = m.histogram("table_rows_returned", "Rows matched by a table filter query",
		prometheus.ExponentialBuckets(1, 4, 10))
	m.exportsByFormat = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "exports_total",
		Help: "Table exports by format",
	}, []string{"format"})
	m.snapshots = m.counter("snapshots_total", "PNG frame snapshots rendered")

	m.datasetRecords = m.gauge("dataset_records", "Medalist records loaded at startup")
	m.datasetYears = m.gauge("dataset_years", "Distinct years in the medalist table")
	m.datasetCountries = m.gauge("dataset_countries", "Distinct countries in the medalist table")
	m.datasetSkippedRows = m.gauge("dataset_skipped_rows", "Rows dropped at load because Year or Age did not parse")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "errors_by_endpoint_total",
		Help: "HTTP errors by endpoint, method and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10})
}

// RecordFigureComputed records one figure computation and its latency.
func RecordFigureComputed(latencyMs float64, rows int) {
	globalManager.figuresComputed.Inc()
	globalManager.figureLatency.Observe(latencyMs)
	globalManager.aggregateRows.Set(float64(rows))
}

// RecordComputationError counts a computation that failed and was recovered.
func RecordComputationError() {
	globalManager.computationErrors.Inc()
}

// RecordFilterQuery records an applied table filter.
func RecordFilterQuery(matched, skippedClauses int) {
	globalManager.filterQueries.Inc()
	globalManager.tableRows.Observe(float64(matched))
	if skippedClauses > 0 {
		globalManager.filterSkipped.Add(float64(skippedClauses))
	}
}

// RecordExport counts a table export in the given format.
func RecordExport(format string) {
	globalManager.exportsByFormat.WithLabelValues(format).Inc()
}

// RecordSnapshot counts a rendered PNG snapshot.
func RecordSnapshot() {
	globalManager.snapshots.Inc()
}

// UpdateDataset publishes the shape of the loaded reference data.
func UpdateDataset(records, years, countries, skipped int) {
	globalManager.datasetRecords.Set(float64(records))
	globalManager.datasetYears.Set(float64(years))
	globalManager.datasetCountries.Set(float64(countries))
	globalManager.datasetSkippedRows.Set(float64(skipped))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Lookup returns the current value of a counter or gauge on the custom registry,
// summed across label combinations. name is the fully qualified metric name.
func Lookup(name string) (float64, error) {
	families, err := customRegistry.Gather()
	if err != nil {
		return 0, fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var total float64
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				total += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				total += metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				total += float64(metric.GetHistogram().GetSampleCount())
			}
		}
		return total, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownMetric, name)
}
