package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics holds all Prometheus metrics
type PrometheusMetrics struct {
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	HttpRequestSize     *prometheus.HistogramVec
	HttpResponseSize    *prometheus.HistogramVec

	// Conversion metrics
	ConversionsTotal   *prometheus.CounterVec
	ConversionDuration *prometheus.HistogramVec
	BatchSize          *prometheus.HistogramVec
	RateLimited        prometheus.Counter
}

var (
	metrics     *PrometheusMetrics
	metricsOnce sync.Once
)

// InitMetrics registers the collectors with the default registry. Calling it
// more than once is a no-op.
func InitMetrics() {
	metricsOnce.Do(func() {
		metrics = &PrometheusMetrics{
			HttpRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "sqlconv_http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "endpoint", "status"},
			),
			HttpRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "sqlconv_http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "endpoint"},
			),
			HttpRequestSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "sqlconv_http_request_size_bytes",
					Help:    "HTTP request size in bytes",
					Buckets: []float64{100, 1000, 10000, 100000, 1000000},
				},
				[]string{"method", "endpoint"},
			),
			HttpResponseSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "sqlconv_http_response_size_bytes",
					Help:    "HTTP response size in bytes",
					Buckets: []float64{100, 1000, 10000, 100000, 1000000},
				},
				[]string{"method", "endpoint"},
			),

			ConversionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "sqlconv_conversions_total",
					Help: "Total number of SQL items processed, by operation and outcome",
				},
				[]string{"operation", "outcome"},
			),
			ConversionDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "sqlconv_conversion_duration_seconds",
					Help:    "Time spent translating or parsing one SQL item",
					Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
				},
				[]string{"operation"},
			),
			BatchSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "sqlconv_batch_size",
					Help:    "Number of items per batch request",
					Buckets: []float64{1, 10, 50, 100, 250, 500, 1000},
				},
				[]string{"operation"},
			),
			RateLimited: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "sqlconv_rate_limited_total",
					Help: "Requests rejected by the rate limiter",
				},
			),
		}
	})
}

// PrometheusMiddleware is a Gin middleware that records HTTP metrics
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		// unmatched routes share one label to keep cardinality bounded
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		metrics.HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
		metrics.HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration)

		if c.Request.ContentLength > 0 {
			metrics.HttpRequestSize.WithLabelValues(method, endpoint).Observe(float64(c.Request.ContentLength))
		}
		if c.Writer.Size() > 0 {
			metrics.HttpResponseSize.WithLabelValues(method, endpoint).Observe(float64(c.Writer.Size()))
		}
	}
}

// RecordConversion records one translated or parsed item. outcome is
// "success", "validation_error", "translation_error" or "internal_error".
func RecordConversion(operation, outcome string, duration time.Duration) {
	if metrics == nil {
		return
	}

	metrics.ConversionsTotal.WithLabelValues(operation, outcome).Inc()
	metrics.ConversionDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordBatchSize records the length of an accepted batch
func RecordBatchSize(operation string, size int) {
	if metrics == nil {
		return
	}

	metrics.BatchSize.WithLabelValues(operation).Observe(float64(size))
}

func recordRateLimited() {
	if metrics == nil {
		return
	}

	metrics.RateLimited.Inc()
}
