package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/api/v1/post/{id}", http.StatusOK, 15*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/post/{id}", http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/post/{id}", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/post/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/post/{id}", "404")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodPost, "/api/v1/post", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_server_requests_total{method="POST",route="/api/v1/post",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
