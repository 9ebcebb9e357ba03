package middleware

import (
	"time"

	"github.com/gadgetstock/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// httpDurationBuckets are latency buckets in seconds
var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

type httpMetrics struct {
	requests *telemetry.Counter
	duration *telemetry.Histogram
	active   *telemetry.UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requests, err := telemetry.NewCounter(meter, "http_server_request_total", "Total number of HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}
	duration, err := telemetry.NewHistogram(meter, "http_server_request_duration_seconds",
		"HTTP request latency distribution in seconds", "s", httpDurationBuckets)
	if err != nil {
		return nil, err
	}
	active, err := telemetry.NewUpDownCounter(meter, "http_server_active_requests", "Number of in-flight HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}
	return &httpMetrics{requests: requests, duration: duration, active: active}, nil
}

// HTTPMetrics records request count, latency and concurrency per route.
// It is a pass-through when the meter provider is disabled.
func HTTPMetrics(mp *telemetry.MeterProvider) gin.HandlerFunc {
	if mp == nil || !mp.IsEnabled() {
		return func(c *gin.Context) { c.Next() }
	}
	m, err := newHTTPMetrics(mp.Meter("http.server"))
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		m.active.Add(ctx, 1)

		c.Next()

		m.active.Add(ctx, -1)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		}
		m.duration.RecordDuration(ctx, time.Since(start), attrs...)
		m.requests.Inc(ctx, append(attrs, attribute.Int("http.status_code", c.Writer.Status()))...)
	}
}
