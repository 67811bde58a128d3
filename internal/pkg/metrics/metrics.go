package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bustrack",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bustrack",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Tracking metrics
	FixesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bustrack",
		Subsystem: "tracking",
		Name:      "fixes_ingested_total",
		Help:      "Total GPS fixes accepted into the fix store",
	}, []string{"source"})

	FixValidationRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bustrack",
		Subsystem: "tracking",
		Name:      "fix_validation_rejected_total",
		Help:      "Total fix submissions rejected by shape validation",
	}, []string{"field"})

	UnknownRouteFixes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bustrack",
		Subsystem: "tracking",
		Name:      "unknown_route_fixes_total",
		Help:      "Total fixes from vehicles with no registered route",
	})

	OutOfOrderFixes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bustrack",
		Subsystem: "tracking",
		Name:      "out_of_order_fixes_total",
		Help:      "Total fixes discarded because a newer one was already stored",
	})

	StaleQueries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bustrack",
		Subsystem: "tracking",
		Name:      "stale_queries_total",
		Help:      "Total current-fix queries answered with stale data",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bustrack",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bustrack",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bustrack",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
