package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyRequired(t *testing.T) {
	handler := APIKey("secret", true)(okHandler())

	tests := []struct {
		name     string
		setup    func(r *http.Request)
		path     string
		expected int
	}{
		{"missing key", func(r *http.Request) {}, "/api/v1/products", http.StatusUnauthorized},
		{"wrong key", func(r *http.Request) { r.Header.Set("X-API-Key", "nope") }, "/api/v1/products", http.StatusUnauthorized},
		{"bearer token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer secret") }, "/api/v1/products", http.StatusOK},
		{"apikey scheme", func(r *http.Request) { r.Header.Set("Authorization", "ApiKey secret") }, "/api/v1/products", http.StatusOK},
		{"header key", func(r *http.Request) { r.Header.Set("X-API-Key", "secret") }, "/api/v1/products", http.StatusOK},
		{"query key", func(r *http.Request) {}, "/api/v1/products?api_key=secret", http.StatusOK},
		{"health bypasses auth", func(r *http.Request) {}, "/health", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			tt.setup(req)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestAPIKeyOptional(t *testing.T) {
	handler := APIKey("secret", false)(okHandler())

	// No key is fine when not required
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// But a provided key must still match
	req := httptest.NewRequest("GET", "/api/v1/products", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimitRejectsBurst(t *testing.T) {
	handler := RateLimit(1)(okHandler())

	statuses := make(map[int]int)
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", "/api/v1/products", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses[rec.Code]++
	}

	assert.Greater(t, statuses[http.StatusOK], 0)
	assert.Greater(t, statuses[http.StatusTooManyRequests], 0, "burst above 1 req/s must throttle")
}
