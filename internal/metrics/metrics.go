// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the subset of metrics used by the catalog and favorites
// packages. Nop satisfies it for tests and tools.
type Recorder interface {
	RecordCatalogCall(op string, outcome string, d time.Duration)
	RecordEnrichmentFailure()
	RecordStaleSearchDropped()
}

// Collector is the Prometheus implementation of Recorder plus HTTP metrics.
type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	catalogCalls   *prometheus.CounterVec
	catalogLatency *prometheus.HistogramVec
	enrichFail     prometheus.Counter
	staleDropped   prometheus.Counter
}

// NewCollector creates a Collector and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biglibrary_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biglibrary_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		catalogCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "biglibrary_catalog_calls_total",
			Help: "Calls to the external catalog API by operation and outcome.",
		}, []string{"op", "outcome"}),
		catalogLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "biglibrary_catalog_call_duration_seconds",
			Help:    "External catalog API latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		enrichFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "biglibrary_favorites_enrichment_failures_total",
			Help: "Favorite records that could not be enriched with catalog data.",
		}),
		staleDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "biglibrary_catalog_stale_responses_total",
			Help: "Search responses discarded because a newer search was applied.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.catalogCalls,
		c.catalogLatency,
		c.enrichFail,
		c.staleDropped,
	)
	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RecordCatalogCall(op, outcome string, d time.Duration) {
	c.catalogCalls.WithLabelValues(op, outcome).Inc()
	c.catalogLatency.WithLabelValues(op).Observe(d.Seconds())
}

func (c *Collector) RecordEnrichmentFailure() {
	c.enrichFail.Inc()
}

func (c *Collector) RecordStaleSearchDropped() {
	c.staleDropped.Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordCatalogCall(string, string, time.Duration) {}
func (Nop) RecordEnrichmentFailure()                        {}
func (Nop) RecordStaleSearchDropped()                       {}
