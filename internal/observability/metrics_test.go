package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/tenant-services/config"
)

func testTenant() config.TenantConfig {
	return config.TenantConfig{
		Company:    "Acme",
		Industry:   "Retail",
		TenantName: "acme",
	}
}

// sampleCount sums the observations of a histogram family across label sets.
func sampleCount(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var total uint64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetHistogram().GetSampleCount()
		}
	}
	return total
}

func TestNewRequestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRequestMetrics(testTenant(), reg)

	require.NotNil(t, m)
	assert.Same(t, reg, m.Registry())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.appInfo.WithLabelValues("Acme", "Retail", "acme")))
}

func TestNewRequestMetrics_NilRegistry(t *testing.T) {
	m := NewRequestMetrics(testTenant(), nil)
	require.NotNil(t, m.Registry())
}

func TestRequestTimer_BeginEnd(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRequestMetrics(testTenant(), reg)

	timer := m.Begin(http.MethodGet)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeRequests.WithLabelValues("acme")))

	timer.End("/hello", http.StatusOK)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeRequests.WithLabelValues("acme")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/hello", "acme", "200")))
	assert.Equal(t, uint64(1), sampleCount(t, reg, "http_request_duration_seconds"))
}

func TestRequestTimer_EndIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRequestMetrics(testTenant(), reg)

	timer := m.Begin(http.MethodGet)
	timer.End("/health", http.StatusOK)
	timer.End("/health", http.StatusInternalServerError)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeRequests.WithLabelValues("acme")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/health", "acme", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/health", "acme", "500")))
	assert.Equal(t, uint64(1), sampleCount(t, reg, "http_request_duration_seconds"))
}

func TestRequestMetrics_ConcurrentRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRequestMetrics(testTenant(), reg)

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			timer := m.Begin(http.MethodGet)
			timer.End("/hello", http.StatusOK)
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(n), testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/hello", "acme", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeRequests.WithLabelValues("acme")))
	assert.Equal(t, uint64(n), sampleCount(t, reg, "http_request_duration_seconds"))
}

func TestRequestMetrics_RecordFault(t *testing.T) {
	m := NewRequestMetrics(testTenant(), nil)

	m.RecordFault(http.MethodGet, "/hello", FaultPanic)
	m.RecordFault(http.MethodGet, "/hello", FaultPanic)
	m.RecordFault(http.MethodPost, "/hello", FaultTimeout)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestErrors.WithLabelValues("GET", "/hello", "acme", "panic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestErrors.WithLabelValues("POST", "/hello", "acme", "timeout")))
}

func TestRequestMetrics_Handler(t *testing.T) {
	m := NewRequestMetrics(testTenant(), nil)
	m.Begin(http.MethodGet).End("/hello", http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))

	body := w.Body.String()
	assert.Contains(t, body, `http_requests_total{endpoint="/hello",method="GET",status="200",tenant="acme"} 1`)
	assert.Contains(t, body, `app_info{company="Acme",industry="Retail",tenant="acme"} 1`)
	assert.Contains(t, body, `http_requests_active{tenant="acme"} 0`)
	assert.Contains(t, body, "http_request_duration_seconds_bucket")
}
