// Package metrics provides Prometheus metrics for the newsbot services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exposed by the services.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Source site traffic
	sourceRequests        *prometheus.CounterVec
	sourceRequestDuration *prometheus.HistogramVec

	// Extraction quality
	listingPages      prometheus.Counter
	listingCards      *prometheus.CounterVec
	detailFieldMissed *prometheus.CounterVec

	// Scoring and selection
	evaluations       *prometheus.CounterVec
	selectionRequests *prometheus.CounterVec

	// Pipeline
	pipelineRuns          *prometheus.CounterVec
	pipelineStageDuration *prometheus.HistogramVec

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide collectors

// customRegistry avoids the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "newsbot",
		subsystem:        "",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 120000, 600000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sourceRequests = m.counterVec("source_requests_total",
		"Requests sent to the paper listing site by kind and status class", "kind", "status")
	m.sourceRequestDuration = m.histogramVec("source_request_duration_milliseconds",
		"Latency of requests to the paper listing site", "kind")

	m.listingPages = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "listing_pages_total",
		Help:        "Trending listing pages parsed",
		ConstLabels: m.constLabels,
	})
	m.listingCards = m.counterVec("listing_cards_total",
		"Paper cards seen on listing pages by outcome (extracted, dropped)", "outcome")
	m.detailFieldMissed = m.counterVec("detail_fields_missing_total",
		"Detail page fields that could not be extracted", "field")

	m.evaluations = m.counterVec("evaluations_total",
		"Candidate evaluations by outcome (scored, skipped)", "outcome")
	m.selectionRequests = m.counterVec("selection_requests_total",
		"Selection operations by operation and outcome", "operation", "outcome")

	m.pipelineRuns = m.counterVec("pipeline_runs_total",
		"Pipeline runs by outcome (ok or failing stage)", "outcome")
	m.pipelineStageDuration = m.histogramVec("pipeline_stage_duration_milliseconds",
		"Duration of each pipeline stage", "stage", "outcome")

	m.httpRequests = m.counterVec("http_requests_total",
		"HTTP requests served by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorsByEndpoint = m.counterVec("http_errors_total",
		"HTTP error responses by endpoint, method and error type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "system_memory_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Name:        "system_goroutines",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})
}

// RecordSourceRequest records one request to the listing site.
// kind is "listing" or "detail"; status is a class like "2xx" or "error".
func (m *Manager) RecordSourceRequest(kind, status string, latencyMs float64) {
	m.sourceRequests.WithLabelValues(kind, status).Inc()
	m.sourceRequestDuration.WithLabelValues(kind).Observe(latencyMs)
}

// RecordListingPage counts a parsed listing page.
func (m *Manager) RecordListingPage() { m.listingPages.Inc() }

// RecordListingCard counts a listing card by outcome.
func (m *Manager) RecordListingCard(outcome string) { m.listingCards.WithLabelValues(outcome).Inc() }

// RecordDetailFieldMissing counts a detail field extraction failure.
func (m *Manager) RecordDetailFieldMissing(field string) {
	m.detailFieldMissed.WithLabelValues(field).Inc()
}

// RecordEvaluation counts an evaluation by outcome.
func (m *Manager) RecordEvaluation(outcome string) { m.evaluations.WithLabelValues(outcome).Inc() }

// RecordSelection counts a selection operation.
func (m *Manager) RecordSelection(operation, outcome string) {
	m.selectionRequests.WithLabelValues(operation, outcome).Inc()
}

// RecordPipelineRun counts a finished pipeline run.
func (m *Manager) RecordPipelineRun(outcome string) { m.pipelineRuns.WithLabelValues(outcome).Inc() }

// RecordPipelineStage observes a stage duration.
func (m *Manager) RecordPipelineStage(stage, outcome string, latencyMs float64) {
	m.pipelineStageDuration.WithLabelValues(stage, outcome).Observe(latencyMs)
}

// RecordHTTPRequest records a served request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error response.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap usage in bytes.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	m.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	m.systemGoroutineCount.Set(float64(count))
}

// Default returns the process-wide manager backed by GetRegistry.
func Default() *Manager { return globalManager }

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level shorthands over the global manager.

// RecordSourceRequest records one upstream fetch on the global manager.
func RecordSourceRequest(kind, status string, latencyMs float64) {
	globalManager.RecordSourceRequest(kind, status, latencyMs)
}

// RecordListingPage counts one listing page on the global manager.
func RecordListingPage() {
	globalManager.RecordListingPage()
}

// RecordListingCard counts one listing card by outcome on the global manager.
func RecordListingCard(outcome string) {
	globalManager.RecordListingCard(outcome)
}

// RecordDetailFieldMissing counts a detail page missing field on the global manager.
func RecordDetailFieldMissing(field string) {
	globalManager.RecordDetailFieldMissing(field)
}

// RecordEvaluation counts one evaluation by outcome on the global manager.
func RecordEvaluation(outcome string) {
	globalManager.RecordEvaluation(outcome)
}

// RecordSelection counts one selection operation on the global manager.
func RecordSelection(op, outcome string) {
	globalManager.RecordSelection(op, outcome)
}

// RecordPipelineRun counts one pipeline run by outcome on the global manager.
func RecordPipelineRun(outcome string) {
	globalManager.RecordPipelineRun(outcome)
}

// RecordPipelineStage records one pipeline stage on the global manager.
func RecordPipelineStage(stage, outcome string, latencyMs float64) {
	globalManager.RecordPipelineStage(stage, outcome, latencyMs)
}

// RecordHTTPRequest records one HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint records an error response on the global manager.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystemMemoryUsage sets heap usage on the global manager.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.UpdateSystemMemoryUsage(bytes)
}

// UpdateSystemGoroutineCount sets the goroutine count on the global manager.
func UpdateSystemGoroutineCount(count int) {
	globalManager.UpdateSystemGoroutineCount(count)
}
