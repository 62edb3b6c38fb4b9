package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is a Prometheus-backed implementation of all hook
// interfaces. One instance owns its own registry, so tests and
// multiple servers never collide on metric registration.
type Metrics struct {
	// Pipeline
	ParsesTotal    *prometheus.CounterVec
	LayoutsTotal   *prometheus.CounterVec
	LayoutDuration *prometheus.HistogramVec
	LayoutPersons  prometheus.Histogram
	ExportsTotal   *prometheus.CounterVec
	ExportDuration *prometheus.HistogramVec

	// Cache
	CacheOpsTotal *prometheus.CounterVec
	CacheSetBytes *prometheus.HistogramVec

	// HTTP server
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPPanicsTotal      prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates a Metrics instance with every metric registered
// on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{registry: reg}

	m.ParsesTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pedigraph_parses_total",
			Help: "Total number of family documents parsed",
		},
		[]string{"status"},
	)
	m.LayoutsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pedigraph_layouts_total",
			Help: "Total number of layout computations",
		},
		[]string{"mode", "status"},
	)
	m.LayoutDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pedigraph_layout_duration_seconds",
			Help:    "Layout computation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
	m.LayoutPersons = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pedigraph_layout_persons",
			Help:    "Number of persons per layout computation",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)
	m.ExportsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pedigraph_exports_total",
			Help: "Total number of layout exports",
		},
		[]string{"format", "status"},
	)
	m.ExportDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pedigraph_export_duration_seconds",
			Help:    "Export rendering latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	m.CacheOpsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pedigraph_cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"key_type", "operation"},
	)
	m.CacheSetBytes = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pedigraph_cache_set_bytes",
			Help:    "Size of cached entries in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"key_type"},
	)

	m.HTTPRequestsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "pedigraph_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pedigraph_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	m.HTTPRequestsInFlight = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "pedigraph_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
	m.HTTPPanicsTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "pedigraph_http_panics_total",
			Help: "Total number of recovered handler panics",
		},
	)

	return m
}

// Install registers this instance as the implementation of all three
// hook interfaces.
func (m *Metrics) Install() {
	SetPipelineHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

// Registry returns the underlying Prometheus registry, for exposing
// via promhttp.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// =============================================================================
// PipelineHooks Implementation
// =============================================================================

func (m *Metrics) OnParseStart(context.Context, string) {}

func (m *Metrics) OnParseComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	m.ParsesTotal.WithLabelValues(status(err)).Inc()
}

func (m *Metrics) OnLayoutStart(_ context.Context, _ string, personCount int) {
	m.LayoutPersons.Observe(float64(personCount))
}

func (m *Metrics) OnLayoutComplete(_ context.Context, mode string, duration time.Duration, err error) {
	m.LayoutsTotal.WithLabelValues(mode, status(err)).Inc()
	m.LayoutDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func (m *Metrics) OnExportStart(context.Context, string) {}

func (m *Metrics) OnExportComplete(_ context.Context, format string, duration time.Duration, err error) {
	m.ExportsTotal.WithLabelValues(format, status(err)).Inc()
	m.ExportDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// =============================================================================
// CacheHooks Implementation
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheOpsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheOpsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheOpsTotal.WithLabelValues(keyType, "set").Inc()
	m.CacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

// =============================================================================
// HTTPHooks Implementation
// =============================================================================

func (m *Metrics) OnRequest(_ context.Context, _, _ string) {
	m.HTTPRequestsInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsInFlight.Dec()
	m.HTTPRequestsTotal.WithLabelValues(method, path, httpStatus(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) OnPanic(_ context.Context, _, _ string, _ any) {
	m.HTTPPanicsTotal.Inc()
}

// =============================================================================
// Internal Helpers
// =============================================================================

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func httpStatus(code int) string {
	// Bucket by class to keep label cardinality bounded.
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Ensure Metrics implements all hook interfaces.
var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
