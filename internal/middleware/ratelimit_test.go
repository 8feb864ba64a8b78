package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimit_AuthBucketIsStricter(t *testing.T) {
	limiter := NewRateLimitMiddleware(100, 2)
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doRequest := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, doRequest("/api/v1/auth/login"))
	assert.Equal(t, http.StatusOK, doRequest("/api/v1/auth/login"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest("/api/v1/auth/login"),
		"third auth attempt within the burst must be throttled")

	// The exhausted auth bucket does not touch the general one.
	assert.Equal(t, http.StatusOK, doRequest("/api/v1/tareas"))
}

func TestRateLimit_HealthIsExempt(t *testing.T) {
	limiter := NewRateLimitMiddleware(1, 1)
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_PerClientIsolation(t *testing.T) {
	limiter := NewRateLimitMiddleware(100, 1)
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doRequest := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, doRequest("10.0.0.3"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest("10.0.0.3"))
	assert.Equal(t, http.StatusOK, doRequest("10.0.0.4"), "another client keeps its own budget")
}
