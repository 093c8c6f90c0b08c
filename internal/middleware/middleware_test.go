package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showgrounds/paddock/internal/metrics"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func TestAuthMiddleware(t *testing.T) {
	h := AuthMiddleware("s3cret")(okHandler)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid key", "Bearer s3cret", http.StatusOK},
		{"lowercase scheme", "bearer s3cret", http.StatusUnauthorized},
		{"padded token", "Bearer  s3cret ", http.StatusOK},
		{"wrong key", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"no scheme", "s3cret", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule/view", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("Expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_ErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	AuthMiddleware("s3cret")(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["status"])
	assert.Equal(t, "Invalid or missing API key.", body["message"])
	assert.NotContains(t, body, "data")
}

func TestAuthMiddleware_DisabledWithoutSecret(t *testing.T) {
	rec := httptest.NewRecorder()
	AuthMiddleware("")(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	h := NewRateLimiter(1, 2).Middleware(okHandler)

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"), "burst exhausted")
	assert.Equal(t, http.StatusOK, call("10.0.0.2:5000"), "other IPs have their own bucket")

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, call("127.0.0.1:6000"), "loopback is never limited")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "abc-123", seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestMetricsMiddleware_RecordsRoutePattern(t *testing.T) {
	promReg := prometheus.NewRegistry()
	reg := metrics.NewMetricsRegistry(promReg)

	r := chi.NewRouter()
	r.Use(MetricsMiddleware(reg))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}

	families, err := promReg.Gather()
	require.NoError(t, err)

	var got float64
	for _, mf := range families {
		if mf.GetName() != "paddock_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["endpoint"] == "/items/{id}" && labels["status_code"] == "418" {
				got += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, float64(2), got)
}
