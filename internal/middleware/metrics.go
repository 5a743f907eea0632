package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/contentbird/stork-bridge/internal/metrics"
)

// Metrics returns middleware that records request counts and latency.
// The normalize function maps a request path to its metric label so
// per-record URLs do not explode label cardinality.
func Metrics(normalize func(*http.Request) string) func(http.Handler) http.Handler {
	if normalize == nil {
		normalize = func(r *http.Request) string {
			return strings.Trim(r.URL.Path, "/")
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

			start := time.Now()
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			action := normalize(r)
			status := strconv.Itoa(sw.statusCode)
			metrics.RecordRequest(r.Method, action, status)
			metrics.RecordRequestDuration(r.Method, action, status, duration.Seconds())
		})
	}
}

// statusWriter captures the response status code without buffering the body.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
