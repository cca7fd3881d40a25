// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	SearchDuration *prometheus.HistogramVec
	SearchCache    *prometheus.CounterVec
	CatalogRefresh *prometheus.CounterVec
	VisibleOffers  prometheus.Gauge
}

// New registers all collectors, plus the Go runtime and process collectors,
// on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "offerfinder",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "offerfinder",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		SearchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "offerfinder",
			Name:      "search_query_duration_seconds",
			Help:      "Offer search query latency by sort order.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"sort"}),
		SearchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "offerfinder",
			Name:      "search_cache_total",
			Help:      "Search page cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		CatalogRefresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "offerfinder",
			Name:      "catalog_refresh_total",
			Help:      "Reference catalog reloads by outcome.",
		}, []string{"outcome"}),
		VisibleOffers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "offerfinder",
			Name:      "visible_offers",
			Help:      "Offers currently visible to search (latest per combination).",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests, m.HTTPDuration, m.SearchDuration, m.SearchCache, m.CatalogRefresh, m.VisibleOffers,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSearch records one search query.
func (m *Metrics) ObserveSearch(sort string, d time.Duration) {
	if m == nil {
		return
	}
	m.SearchDuration.WithLabelValues(sort).Observe(d.Seconds())
}

// CacheResult counts one search cache lookup.
func (m *Metrics) CacheResult(result string) {
	if m == nil {
		return
	}
	m.SearchCache.WithLabelValues(result).Inc()
}

// RefreshResult counts one catalog reload.
func (m *Metrics) RefreshResult(ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.CatalogRefresh.WithLabelValues(outcome).Inc()
}

// SetVisibleOffers updates the visible offer gauge.
func (m *Metrics) SetVisibleOffers(n int) {
	if m == nil {
		return
	}
	m.VisibleOffers.Set(float64(n))
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
