// Package metrics exposes Prometheus counters and histograms for the
// mapping pipeline and the HTTP server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so several collectors can coexist in
// one process (tests, embedded servers).
type Collector struct {
	registry *prometheus.Registry

	generationsTotal    *prometheus.CounterVec
	repairFallbacks     prometheus.Counter
	complexityScore     *prometheus.HistogramVec
	stageDuration       *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates and registers all metrics.
func New() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuromind_generations_total",
			Help: "Diagram generations by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
	c.repairFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "neuromind_repair_fallbacks_total",
		Help: "Mindmaps replaced by the fallback skeleton",
	})
	c.complexityScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuromind_complexity_score",
			Help:    "Complexity score of rendered diagrams",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"kind"},
	)
	c.stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuromind_stage_duration_seconds",
			Help:    "Duration of each pipeline stage",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
	c.cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "neuromind_session_cache_hits_total",
		Help: "Runs that reused cached page text and summary",
	})
	c.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuromind_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	c.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuromind_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	c.registry.MustRegister(
		c.generationsTotal,
		c.repairFallbacks,
		c.complexityScore,
		c.stageDuration,
		c.cacheHits,
		c.httpRequestsTotal,
		c.httpRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveGeneration records the outcome of one pipeline run.
func (c *Collector) ObserveGeneration(kind, outcome string) {
	c.generationsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveRepairFallback counts a fallback substitution.
func (c *Collector) ObserveRepairFallback() {
	c.repairFallbacks.Inc()
}

// ObserveComplexity records a diagram's score.
func (c *Collector) ObserveComplexity(kind string, score int) {
	c.complexityScore.WithLabelValues(kind).Observe(float64(score))
}

// ObserveStage records how long a pipeline stage took.
func (c *Collector) ObserveStage(stage string, d time.Duration) {
	c.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveCacheHit counts a run that skipped fetching and summarizing.
func (c *Collector) ObserveCacheHit() {
	c.cacheHits.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry exposes the underlying registry for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Middleware records request counts and latency labelled by chi route
// pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
