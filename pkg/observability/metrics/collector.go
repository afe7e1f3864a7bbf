// Package metrics implements the observability hooks with Prometheus.
//
// A [Collector] owns its own registry so that several collectors (one per
// test, for example) never clash on metric names. Register it once at
// startup and expose [Collector.Handler] on /metrics:
//
//	c := metrics.NewCollector()
//	c.Register()
//	router.Handle("/metrics", c.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/chemlayout/pkg/observability"
)

const namespace = "chemlayout"

// Collector records pipeline, cache and HTTP events as Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	parseTotal     *prometheus.CounterVec
	parseDuration  *prometheus.HistogramVec
	parsedNodes    prometheus.Histogram
	layoutTotal    *prometheus.CounterVec
	layoutDuration *prometheus.HistogramVec
	renderTotal    *prometheus.CounterVec
	renderDuration prometheus.Histogram

	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	cacheSetBytes *prometheus.HistogramVec

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// NewCollector creates a collector with a fresh registry that also carries
// the Go runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Collector{
		registry: reg,

		parseTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_total",
				Help:      "Total number of parsed inputs",
			},
			[]string{"format", "status"},
		),
		parseDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "parse_duration_seconds",
				Help:      "Input parse duration in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"format"},
		),
		parsedNodes: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "parsed_nodes",
				Help:      "Number of nodes per parsed input",
				Buckets:   prometheus.ExponentialBuckets(4, 2, 10),
			},
		),
		layoutTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "layout_total",
				Help:      "Total number of layout runs by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		layoutDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "layout_duration_seconds",
				Help:      "Layout duration in seconds",
				Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
			},
			[]string{"mode"},
		),
		renderTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "render_total",
				Help:      "Total number of rendered artifacts by format",
			},
			[]string{"format", "status"},
		),
		renderDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_duration_seconds",
				Help:      "Render duration in seconds for all requested formats",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),

		cacheHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits by key type",
			},
			[]string{"key_type"},
		),
		cacheMisses: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses by key type",
			},
			[]string{"key_type"},
		),
		cacheSetBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cache_set_bytes",
				Help:      "Size of cache writes in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
			},
			[]string{"key_type"},
		),

		httpInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of requests currently being served",
			},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_errors_total",
				Help:      "Total number of failed HTTP requests",
			},
			[]string{"method", "route"},
		),
	}
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Register installs c as the global pipeline, cache and HTTP hooks.
func (c *Collector) Register() {
	observability.SetPipelineHooks(c)
	observability.SetCacheHooks(c)
	observability.SetHTTPHooks(c)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

func (c *Collector) OnParseStart(context.Context, string) {}

func (c *Collector) OnParseComplete(_ context.Context, format string, _, nodeCount int, d time.Duration, err error) {
	c.parseTotal.WithLabelValues(format, status(err)).Inc()
	c.parseDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		c.parsedNodes.Observe(float64(nodeCount))
	}
}

func (c *Collector) OnLayoutStart(context.Context, string, int) {}

func (c *Collector) OnLayoutComplete(_ context.Context, mode, outcome string, d time.Duration) {
	c.layoutTotal.WithLabelValues(mode, outcome).Inc()
	c.layoutDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (c *Collector) OnRenderStart(context.Context, []string) {}

func (c *Collector) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	s := status(err)
	for _, f := range formats {
		c.renderTotal.WithLabelValues(f, s).Inc()
	}
	c.renderDuration.Observe(d.Seconds())
}

// =============================================================================
// Cache Hooks
// =============================================================================

func (c *Collector) OnCacheHit(_ context.Context, keyType string) {
	c.cacheHits.WithLabelValues(keyType).Inc()
}

func (c *Collector) OnCacheMiss(_ context.Context, keyType string) {
	c.cacheMisses.WithLabelValues(keyType).Inc()
}

func (c *Collector) OnCacheSet(_ context.Context, keyType string, size int) {
	c.cacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

// =============================================================================
// HTTP Hooks
// =============================================================================

func (c *Collector) OnRequest(context.Context, string, string) {
	c.httpInFlight.Inc()
}

func (c *Collector) OnResponse(_ context.Context, method, route string, statusCode int, d time.Duration) {
	c.httpInFlight.Dec()
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) OnError(_ context.Context, method, route string, _ error) {
	c.httpErrors.WithLabelValues(method, route).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

var (
	_ observability.PipelineHooks = (*Collector)(nil)
	_ observability.CacheHooks    = (*Collector)(nil)
	_ observability.HTTPHooks     = (*Collector)(nil)
)
