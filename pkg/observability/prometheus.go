package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blueprint"

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60}

// PromHooks records every hook event as Prometheus metrics. It implements
// [PipelineHooks], [CacheHooks] and [HTTPHooks].
type PromHooks struct {
	registry *prometheus.Registry

	LayoutsTotal    *prometheus.CounterVec
	LayoutDuration  *prometheus.HistogramVec
	LayoutNodes     *prometheus.HistogramVec
	RendersTotal    *prometheus.CounterVec
	RenderDuration  prometheus.Histogram
	PlansTotal      *prometheus.CounterVec
	PlanDuration    *prometheus.HistogramVec
	CacheOpsTotal   *prometheus.CounterVec
	CacheBytes      *prometheus.CounterVec
	BackendTotal    *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
	ServeTotal      *prometheus.CounterVec
	ServeDuration   *prometheus.HistogramVec
}

// NewPromHooks creates and registers all metrics on reg. A nil reg creates
// a fresh registry.
func NewPromHooks(reg *prometheus.Registry) *PromHooks {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &PromHooks{
		registry: reg,
		LayoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Layouts computed, by diagram, fallback use and status",
		}, []string{"diagram", "fallback", "status"}),
		LayoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Layout computation time",
			Buckets:   durationBuckets,
		}, []string{"diagram"}),
		LayoutNodes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_nodes",
			Help:      "Declared nodes per layout request",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		}, []string{"diagram"}),
		RendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Render calls by status",
		}, []string{"status"}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Render time for all requested formats",
			Buckets:   durationBuckets,
		}),
		PlansTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Blueprint generations by mode, provider and status",
		}, []string{"mode", "provider", "status"}),
		PlanDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_duration_seconds",
			Help:      "Blueprint generation time",
			Buckets:   durationBuckets,
		}, []string{"mode"}),
		CacheOpsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache hits, misses and writes by key type",
		}, []string{"key_type", "op"}),
		CacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"key_type"}),
		BackendTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Requests to the planning backend by path and status code",
		}, []string{"method", "path", "code"}),
		BackendDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Planning backend response time",
			Buckets:   durationBuckets,
		}, []string{"path"}),
		ServeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by route and status code",
		}, []string{"method", "route", "code"}),
		ServeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   durationBuckets,
		}, []string{"method", "route"}),
	}
}

// Install registers p as the global pipeline, cache and HTTP hooks.
func (p *PromHooks) Install() {
	SetPipelineHooks(p)
	SetCacheHooks(p)
	SetHTTPHooks(p)
}

// Registry returns the registry the metrics live in.
func (p *PromHooks) Registry() *prometheus.Registry { return p.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (p *PromHooks) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

func (p *PromHooks) OnLayoutStart(_ context.Context, diagram string, nodeCount int) {
	p.LayoutNodes.WithLabelValues(diagram).Observe(float64(nodeCount))
}

func (p *PromHooks) OnLayoutComplete(_ context.Context, diagram string, fallback bool, d time.Duration, err error) {
	p.LayoutsTotal.WithLabelValues(diagram, strconv.FormatBool(fallback), status(err)).Inc()
	p.LayoutDuration.WithLabelValues(diagram).Observe(d.Seconds())
}

func (p *PromHooks) OnRenderStart(context.Context, []string) {}

func (p *PromHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	p.RendersTotal.WithLabelValues(status(err)).Inc()
	p.RenderDuration.Observe(d.Seconds())
}

func (p *PromHooks) OnPlanStart(context.Context, string) {}

func (p *PromHooks) OnPlanComplete(_ context.Context, mode, provider string, d time.Duration, err error) {
	if provider == "" {
		provider = "unknown"
	}
	p.PlansTotal.WithLabelValues(mode, provider, status(err)).Inc()
	p.PlanDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (p *PromHooks) OnCacheHit(_ context.Context, keyType string) {
	p.CacheOpsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (p *PromHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheOpsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (p *PromHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheOpsTotal.WithLabelValues(keyType, "set").Inc()
	p.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *PromHooks) OnRequest(context.Context, string, string) {}

func (p *PromHooks) OnResponse(_ context.Context, method, path string, code int, d time.Duration) {
	p.BackendTotal.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
	p.BackendDuration.WithLabelValues(path).Observe(d.Seconds())
}

func (p *PromHooks) OnError(_ context.Context, method, path string, err error) {
	p.BackendTotal.WithLabelValues(method, path, status(err)).Inc()
}

func (p *PromHooks) OnServe(_ context.Context, method, route string, code int, d time.Duration) {
	p.ServeTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.ServeDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*PromHooks)(nil)
	_ CacheHooks    = (*PromHooks)(nil)
	_ HTTPHooks     = (*PromHooks)(nil)
)
