package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusHooks records every hook event as a Prometheus metric. Metrics
// live on a private registry so several instances can coexist in tests.
type PrometheusHooks struct {
	registry *prometheus.Registry

	layouts        *prometheus.CounterVec
	layoutDuration *prometheus.HistogramVec
	layoutPasses   prometheus.Histogram
	layoutNodes    prometheus.Histogram
	resolves       *prometheus.CounterVec
	renders        *prometheus.CounterVec

	cacheOps     *prometheus.CounterVec
	cacheBytes   prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
	httpInFlight prometheus.Gauge
}

// NewPrometheusHooks creates and registers all metrics under namespace.
func NewPrometheusHooks(namespace string) *PrometheusHooks {
	h := &PrometheusHooks{
		registry: prometheus.NewRegistry(),
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Total number of layout computations",
		}, []string{"strategy", "status"}),
		layoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Layout computation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		layoutPasses: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_overlap_passes",
			Help:      "Overlap resolution passes per layout",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 30},
		}),
		layoutNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_nodes",
			Help:      "Number of nodes per layout request",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incremental_resolves_total",
			Help:      "Total number of incremental overlap resolutions",
		}, []string{"result"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total number of preview renders",
		}, []string{"status"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes by key type",
		}, []string{"key_type", "op"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "HTTP requests that failed with an error",
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served",
		}),
	}

	h.registry.MustRegister(
		h.layouts, h.layoutDuration, h.layoutPasses, h.layoutNodes,
		h.resolves, h.renders,
		h.cacheOps, h.cacheBytes,
		h.httpRequests, h.httpDuration, h.httpErrors, h.httpInFlight,
	)
	return h
}

// Registry returns the registry holding all metrics.
func (h *PrometheusHooks) Registry() *prometheus.Registry { return h.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (h *PrometheusHooks) Handler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnLayoutStart records the request size.
func (h *PrometheusHooks) OnLayoutStart(_ context.Context, _ string, nodeCount int) {
	h.layoutNodes.Observe(float64(nodeCount))
}

// OnLayoutComplete records outcome, duration and pass count.
func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, strategy string, passes int, _ bool, d time.Duration, err error) {
	h.layouts.WithLabelValues(strategy, status(err)).Inc()
	if err != nil {
		return
	}
	h.layoutDuration.WithLabelValues(strategy).Observe(d.Seconds())
	if passes > 0 {
		h.layoutPasses.Observe(float64(passes))
	}
}

// OnResolveStart does nothing; resolutions are counted on completion.
func (h *PrometheusHooks) OnResolveStart(context.Context, int, int) {}

// OnResolveComplete counts resolutions by whether anything moved.
func (h *PrometheusHooks) OnResolveComplete(_ context.Context, moved bool, _ time.Duration, err error) {
	result := "unchanged"
	switch {
	case err != nil:
		result = "error"
	case moved:
		result = "moved"
	}
	h.resolves.WithLabelValues(result).Inc()
}

// OnRenderStart does nothing; renders are counted on completion.
func (h *PrometheusHooks) OnRenderStart(context.Context, []string) {}

// OnRenderComplete counts renders.
func (h *PrometheusHooks) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	h.renders.WithLabelValues(status(err)).Inc()
}

// OnCacheHit counts a hit.
func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss counts a miss.
func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet counts a write and its size.
func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.Add(float64(size))
}

// OnRequest tracks in-flight requests.
func (h *PrometheusHooks) OnRequest(context.Context, string, string) {
	h.httpInFlight.Inc()
}

// OnResponse records status and latency.
func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.httpInFlight.Dec()
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// OnError counts failed requests.
func (h *PrometheusHooks) OnError(_ context.Context, method, route string, _ error) {
	h.httpErrors.WithLabelValues(method, route).Inc()
}

// Ensure PrometheusHooks implements every hook interface.
var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
