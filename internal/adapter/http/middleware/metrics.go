package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/merkato/fincore/internal/infrastructure/metrics"
)

// MetricsMiddleware records HTTP metrics.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with request counting and timing.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath normalizes URL paths to avoid high cardinality.
func normalizePath(path string) string {
	// /api/v1/capital/entries/01ABC123 -> /api/v1/capital/entries/:id
	if rest, ok := strings.CutPrefix(path, "/api/v1/capital/entries/"); ok && rest != "" {
		return "/api/v1/capital/entries/:id"
	}

	// /api/v1/revenue/summaries/2024-03 -> /api/v1/revenue/summaries/:period
	if rest, ok := strings.CutPrefix(path, "/api/v1/revenue/summaries/"); ok && rest != "" {
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			return "/api/v1/revenue/summaries/:period" + rest[idx:]
		}

		return "/api/v1/revenue/summaries/:period"
	}

	return path
}
