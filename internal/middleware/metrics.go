package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsMiddleware records request counts and latencies labeled by method,
// status, and the matched chi route pattern.
type MetricsMiddleware struct {
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewMetricsMiddleware(registry prometheus.Registerer) *MetricsMiddleware {
	return &MetricsMiddleware{
		requestCounter: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "evidence_tracker_http_requests_total",
				Help: "Counter for HTTP requests by method, status, route",
			},
			[]string{"method", "status", "route"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evidence_tracker_http_request_duration_seconds",
				Help:    "Histogram of latencies for HTTP requests by method, status, route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status", "route"},
		),
	}
}

func (m *MetricsMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.status)
		m.requestCounter.WithLabelValues(r.Method, status, route).Inc()
		m.requestDuration.WithLabelValues(r.Method, status, route).Observe(time.Since(started).Seconds())
	})
}
