// Package metrics exposes Prometheus counters for the controller.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests and multiple instances don't collide.
// A nil *Metrics is a valid no-op.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	decisionsTotal    *prometheus.CounterVec
	discomfortIndex   prometheus.Gauge
	dispatchErrors    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		decisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aircon_decisions_total",
			Help: "Auto-control decisions by outcome (skip or the commanded mode).",
		}, []string{"outcome"}),
		discomfortIndex: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aircon_discomfort_index",
			Help: "Discomfort index of the most recent reading.",
		}),
		dispatchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aircon_dispatch_errors_total",
			Help: "Commands the device rejected or that failed to send.",
		}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.decisionsTotal,
		m.discomfortIndex,
		m.dispatchErrors,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObserveDecision counts a decision and tracks its DI.
func (m *Metrics) ObserveDecision(outcome string, di float64) {
	if m == nil {
		return
	}
	m.decisionsTotal.WithLabelValues(outcome).Inc()
	m.discomfortIndex.Set(di)
}

func (m *Metrics) DispatchFailed() {
	if m == nil {
		return
	}
	m.dispatchErrors.Inc()
}
