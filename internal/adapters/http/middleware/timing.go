package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultSlowRequest is the default threshold for slow request warnings.
const DefaultSlowRequest = 200 * time.Millisecond

// requestIDCounter is an atomic counter for request IDs.
var requestIDCounter uint64

const routeContextKey contextKey = "route"

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
// PRE: code is a valid HTTP status code
// POST: status stored, header written to underlying ResponseWriter
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// statusWriterPool reduces allocations on the hot path.
var statusWriterPool = sync.Pool{
	New: func() any {
		return &statusWriter{}
	},
}

// RoutePattern must wrap the ServeMux directly. It reports the matched pattern back to Timing,
// which sits outside middleware that copies the request.
func RoutePattern(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if p, ok := r.Context().Value(routeContextKey).(*string); ok {
			*p = r.Pattern
		}
	})
}

// Timing returns middleware that observes request duration and response status.
// Durations are labelled by route pattern so path parameters do not explode cardinality.
// Normal requests log at DEBUG; requests at or above slow log at WARN.
func Timing(duration *prometheus.HistogramVec, responses *prometheus.CounterVec, slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequest
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := atomic.AddUint64(&requestIDCounter, 1)

			var route string
			r = r.WithContext(context.WithValue(r.Context(), routeContextKey, &route))

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				elapsed := time.Since(start)
				if route == "" {
					route = "unmatched"
				}
				if duration != nil {
					duration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
				}
				if responses != nil {
					responses.WithLabelValues(strconv.Itoa(sw.status)).Inc()
				}

				durationMs := float64(elapsed.Microseconds()) / 1000.0
				if elapsed >= slow {
					slog.Warn("slow_request",
						"request_id", reqID,
						"method", r.Method,
						"path", r.URL.Path,
						"route", route,
						"status", sw.status,
						"duration_ms", durationMs,
					)
				} else {
					slog.Debug("request",
						"request_id", reqID,
						"method", r.Method,
						"path", r.URL.Path,
						"status", sw.status,
						"duration_ms", durationMs,
					)
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
