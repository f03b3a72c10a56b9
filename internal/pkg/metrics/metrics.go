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
		Namespace: "saferoute",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "saferoute",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "saferoute",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Assessment metrics
	RouteAssessments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "saferoute",
		Subsystem: "safety",
		Name:      "route_assessments_total",
		Help:      "Total routes assessed, by resulting label",
	}, []string{"label"})

	TriggeredZones = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "saferoute",
		Subsystem: "safety",
		Name:      "triggered_zones",
		Help:      "Number of hazard zones triggered per assessed route",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
	})

	RoutePoints = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "saferoute",
		Subsystem: "safety",
		Name:      "route_points",
		Help:      "Number of points per assessed route",
		Buckets:   prometheus.ExponentialBuckets(2, 4, 6),
	})

	SegmentsColored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "saferoute",
		Subsystem: "safety",
		Name:      "segments_total",
		Help:      "Total route segments colored, by color",
	}, []string{"color"})

	WarningsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "saferoute",
		Subsystem: "safety",
		Name:      "warnings_published_total",
		Help:      "Hazard warnings handed to the event publisher",
	}, []string{"result"})

	// Directions provider metrics
	DirectionsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "saferoute",
		Subsystem: "directions",
		Name:      "requests_total",
		Help:      "Directions provider requests, by outcome",
	}, []string{"status"})

	DirectionsLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "saferoute",
		Subsystem: "directions",
		Name:      "request_duration_seconds",
		Help:      "Latency of directions provider requests",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "saferoute",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "saferoute",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "saferoute",
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
		// route pattern keeps label cardinality bounded (/v1/hazards/:id)
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
