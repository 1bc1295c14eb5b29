package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/merkato/fincore/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	registry := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := metrics.New()
	mw := NewMetricsMiddleware(m)

	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{
			name:       "normalizes capital entry path",
			method:     http.MethodGet,
			path:       "/api/v1/capital/entries/01ABC123",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodPost,
			path:       "/health",
			statusCode: http.StatusCreated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m.HTTPRequests.Reset()
			m.HTTPDuration.Reset()

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			mw.Wrap(next).ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			normalized := normalizePath(tc.path)
			counter := m.HTTPRequests.WithLabelValues(tc.method, normalized, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "capital entry path",
			input:    "/api/v1/capital/entries/01ABC123",
			expected: "/api/v1/capital/entries/:id",
		},
		{
			name:     "summary path without suffix",
			input:    "/api/v1/revenue/summaries/2024-03",
			expected: "/api/v1/revenue/summaries/:period",
		},
		{
			name:     "summary path with suffix",
			input:    "/api/v1/revenue/summaries/2024-03/recompute",
			expected: "/api/v1/revenue/summaries/:period/recompute",
		},
		{
			name:     "entry collection path",
			input:    "/api/v1/capital/entries/",
			expected: "/api/v1/capital/entries/",
		},
		{
			name:     "non-matching path",
			input:    "/api/v1/capital/balance",
			expected: "/api/v1/capital/balance",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
