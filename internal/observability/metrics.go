package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/upb/tenant-services/config"
)

// FaultKind is the error_type label of http_request_errors_total.
// The set is closed so the label cannot grow with arbitrary error types.
type FaultKind string

const (
	FaultPanic    FaultKind = "panic"
	FaultError    FaultKind = "error"
	FaultTimeout  FaultKind = "timeout"
	FaultCanceled FaultKind = "canceled"
)

// DefaultDurationBuckets are tuned for sub-second handlers.
var DefaultDurationBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0}

// RequestMetrics tracks HTTP request metrics for a single tenant process.
//
// Metrics:
//   - http_requests_total: request count by method, endpoint, tenant, status
//   - http_request_duration_seconds: latency histogram by method, endpoint, tenant
//   - http_requests_active: in-flight requests by tenant
//   - http_request_errors_total: faults by method, endpoint, tenant, error_type
//   - app_info: constant 1 labelled with company, industry, tenant
type RequestMetrics struct {
	tenant   string
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  *prometheus.GaugeVec
	requestErrors   *prometheus.CounterVec
	appInfo         *prometheus.GaugeVec
}

// NewRequestMetrics creates and registers request metrics with the provided
// registry. If registry is nil a fresh one is created.
func NewRequestMetrics(tenant config.TenantConfig, registry *prometheus.Registry) *RequestMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &RequestMetrics{
		tenant:   tenant.TenantName,
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "endpoint", "tenant", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: DefaultDurationBuckets,
			},
			[]string{"method", "endpoint", "tenant"},
		),

		activeRequests: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "http_requests_active",
				Help: "Active HTTP requests",
			},
			[]string{"tenant"},
		),

		requestErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_request_errors_total",
				Help: "Total HTTP request errors",
			},
			[]string{"method", "endpoint", "tenant", "error_type"},
		),

		appInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "app_info",
				Help: "Application information",
			},
			[]string{"company", "industry", "tenant"},
		),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.activeRequests,
		m.requestErrors,
		m.appInfo,
	)

	m.appInfo.WithLabelValues(tenant.Company, tenant.Industry, tenant.TenantName).Set(1)

	return m
}

// Begin acquires the per-request instrumentation: the tenant's in-flight
// gauge goes up and the clock starts. The returned timer must be released
// with End exactly once, typically in a defer.
func (m *RequestMetrics) Begin(method string) *RequestTimer {
	gauge := m.activeRequests.WithLabelValues(m.tenant)
	gauge.Inc()
	return &RequestTimer{
		metrics: m,
		method:  method,
		start:   time.Now(),
		gauge:   gauge,
	}
}

// RecordFault counts a fault that escaped a handler.
func (m *RequestMetrics) RecordFault(method, endpoint string, kind FaultKind) {
	m.requestErrors.WithLabelValues(method, endpoint, m.tenant, string(kind)).Inc()
}

// Registry returns the Prometheus registry holding the request metrics.
func (m *RequestMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the registry in the Prometheus
// text exposition format.
func (m *RequestMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// RequestTimer is the release half of Begin.
type RequestTimer struct {
	metrics *RequestMetrics
	method  string
	start   time.Time
	gauge   prometheus.Gauge
	once    sync.Once
}

// End observes the elapsed duration, decrements the in-flight gauge and
// counts the request under its final status. Calls after the first are no-ops.
func (t *RequestTimer) End(endpoint string, status int) {
	t.once.Do(func() {
		m := t.metrics
		m.requestDuration.WithLabelValues(t.method, endpoint, m.tenant).Observe(time.Since(t.start).Seconds())
		t.gauge.Dec()
		m.requestsTotal.WithLabelValues(t.method, endpoint, m.tenant, strconv.Itoa(status)).Inc()
	})
}
