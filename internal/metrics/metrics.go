// Package metrics provides Prometheus metrics for the Cloudee server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudee_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cloudee_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	remoteCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudee_remote_calls_total",
			Help: "Calls to Nextcloud, WebDAV and the archive store",
		},
		[]string{"backend", "operation", "status"},
	)

	remoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cloudee_remote_call_duration_seconds",
			Help:    "Duration of calls to remote backends in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	folderTreeNodes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cloudee_folder_tree_nodes",
			Help:    "Number of entries in built folder trees",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	downloadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cloudee_download_bytes_total",
			Help: "Total bytes streamed to clients from WebDAV",
		},
	)

	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cloudee_auth_attempts_total",
			Help: "Total bearer token checks",
		},
		[]string{"result"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records count and latency of every request by route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			RecordHTTPRequest(c.Request().Method, path, status, time.Since(start))
			return err
		}
	}
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRemoteCall records a call to a remote backend.
func RecordRemoteCall(backend, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	remoteCallsTotal.WithLabelValues(backend, operation, status).Inc()
	remoteCallDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// ObserveFolderTree records the size of a built folder tree.
func ObserveFolderTree(nodes int) {
	folderTreeNodes.Observe(float64(nodes))
}

// RecordDownload adds streamed bytes.
func RecordDownload(bytes int64) {
	downloadBytesTotal.Add(float64(bytes))
}

// RecordAuthAttempt records a bearer token check.
func RecordAuthAttempt(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	authAttemptsTotal.WithLabelValues(result).Inc()
}
