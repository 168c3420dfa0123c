package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	svc := NewMetricsService("postgres")

	svc.ObserveHTTPRequest(http.MethodGet, "/api/courses", 200, 40*time.Millisecond)
	svc.ObserveHTTPRequest(http.MethodGet, "/api/courses", 200, 60*time.Millisecond)
	svc.RecordCacheOperation(true, time.Millisecond)
	svc.RecordCacheOperation(false, time.Millisecond)

	snap := svc.Snapshot()
	assert.Equal(t, "postgres", snap.Backend)
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 50, snap.AverageRequestDurationMs, 0.01)
	assert.InDelta(t, 0.5, snap.CacheHitRatio, 0.0001)
	assert.Greater(t, snap.Goroutines, 0)
	assert.False(t, snap.GeneratedAt.IsZero())
}

func TestMetricsServiceScrapeOutput(t *testing.T) {
	svc := NewMetricsService("file")
	svc.ObserveHTTPRequest(http.MethodPost, "/api/library/borrow", 201, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
	assert.Contains(t, string(body), `storage_backend_info{backend="file"} 1`)
}

func TestMetricsServiceNilReceiverIsSafe(t *testing.T) {
	var svc *MetricsService

	svc.ObserveHTTPRequest(http.MethodGet, "/api/courses", 200, time.Millisecond)
	svc.RecordCacheOperation(true, time.Millisecond)
	svc.ObserveCacheWrite(time.Millisecond)
	assert.Equal(t, uint64(0), svc.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
