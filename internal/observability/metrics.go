package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics stores Prometheus collectors used by the API and the dispatch
// worker.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal     *prometheus.CounterVec
	httpRequestDuration   *prometheus.HistogramVec
	dispatchesSentTotal   *prometheus.CounterVec
	dispatchesFailedTotal *prometheus.CounterVec
	dispatchSendDuration  *prometheus.HistogramVec
	dispatchInflight      *prometheus.GaugeVec
	retryAttemptsTotal    *prometheus.CounterVec
	fullTransitionsTotal  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "batchboard",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "batchboard",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		dispatchesSentTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "batchboard",
				Name:      "dispatches_sent_total",
				Help:      "Total number of webhook dispatches delivered successfully.",
			},
			[]string{"department"},
		),
		dispatchesFailedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "batchboard",
				Name:      "dispatches_failed_total",
				Help:      "Total number of webhook dispatches that ended in a failed record.",
			},
			[]string{"department", "reason"},
		),
		dispatchSendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "batchboard",
				Name:      "dispatch_send_duration_seconds",
				Help:      "Webhook delivery duration in seconds grouped by department.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"department"},
		),
		dispatchInflight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "batchboard",
				Name:      "dispatch_inflight",
				Help:      "Current number of in-flight webhook deliveries grouped by department.",
			},
			[]string{"department"},
		),
		retryAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "batchboard",
				Name:      "retry_attempts_total",
				Help:      "Total number of delivery retries performed.",
			},
			[]string{"department"},
		),
		fullTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "batchboard",
				Name:      "full_transitions_total",
				Help:      "Total number of batch full transitions that produced a dispatch.",
			},
			[]string{"department"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dispatchesSentTotal,
		m.dispatchesFailedTotal,
		m.dispatchSendDuration,
		m.dispatchInflight,
		m.retryAttemptsTotal,
		m.fullTransitionsTotal,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		// Avoid self-scrape noise for request counters.
		if path == "/metrics" {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, statusFromResult(c, err), time.Since(start))
		return err
	}
}

func (m *Metrics) IncDispatchSent(department string) {
	if m == nil {
		return
	}
	m.dispatchesSentTotal.WithLabelValues(normalizeDepartment(department)).Inc()
}

func (m *Metrics) IncDispatchFailed(department string, reason string) {
	if m == nil {
		return
	}
	reasonLabel := strings.TrimSpace(strings.ToLower(reason))
	if reasonLabel == "" {
		reasonLabel = "unknown"
	}
	m.dispatchesFailedTotal.WithLabelValues(normalizeDepartment(department), reasonLabel).Inc()
}

func (m *Metrics) ObserveDispatchSendDuration(department string, duration time.Duration) {
	if m == nil {
		return
	}
	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	m.dispatchSendDuration.WithLabelValues(normalizeDepartment(department)).Observe(seconds)
}

func (m *Metrics) IncDispatchInFlight(department string) {
	if m == nil {
		return
	}
	m.dispatchInflight.WithLabelValues(normalizeDepartment(department)).Inc()
}

func (m *Metrics) DecDispatchInFlight(department string) {
	if m == nil {
		return
	}
	m.dispatchInflight.WithLabelValues(normalizeDepartment(department)).Dec()
}

func (m *Metrics) IncRetryAttempt(department string) {
	if m == nil {
		return
	}
	m.retryAttemptsTotal.WithLabelValues(normalizeDepartment(department)).Inc()
}

func (m *Metrics) IncFullTransition(department string) {
	if m == nil {
		return
	}
	m.fullTransitionsTotal.WithLabelValues(normalizeDepartment(department)).Inc()
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := strings.ToUpper(strings.TrimSpace(method))
	if methodLabel == "" {
		methodLabel = "UNKNOWN"
	}
	pathLabel := strings.TrimSpace(path)
	if pathLabel == "" {
		pathLabel = "unmatched"
	}

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func normalizeDepartment(department string) string {
	normalized := strings.TrimSpace(strings.ToLower(department))
	if normalized == "" {
		return "unknown"
	}
	return normalized
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return "unmatched"
	}

	if route := c.Route(); route != nil {
		if path := strings.TrimSpace(route.Path); path != "" {
			return path
		}
	}
	return "unmatched"
}

func statusFromResult(c *fiber.Ctx, err error) int {
	if err != nil {
		if e, ok := err.(*fiber.Error); ok {
			return e.Code
		}
		return fiber.StatusInternalServerError
	}
	return c.Response().StatusCode()
}
