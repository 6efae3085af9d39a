// Package observability exposes Prometheus metrics for the HTTP surface
// and the scrapbook business operations.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application. Each
// collector owns its registry, so tests can create them freely.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	MomentsAdded         prometheus.Counter
	AdorationAdded       prometheus.Counter
	InteractionsRecorded prometheus.Counter
	SaveFailures         prometheus.Counter
}

// NewCollector creates a metrics collector with the given namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	collector := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		MomentsAdded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "moments_added_total",
				Help:      "Total number of cherished moments added",
			},
		),
		AdorationAdded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "adoration_items_added_total",
				Help:      "Total number of adoration items added",
			},
		),
		InteractionsRecorded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interactions_recorded_total",
				Help:      "Total number of visitor interactions recorded",
			},
		),
		SaveFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_save_failures_total",
				Help:      "Total number of failed scrapbook persistence attempts",
			},
		),
	}

	registry.MustRegister(
		collector.HTTPRequests,
		collector.HTTPDuration,
		collector.MomentsAdded,
		collector.AdorationAdded,
		collector.InteractionsRecorded,
		collector.SaveFailures,
	)

	return collector
}

// Handler returns the /metrics endpoint handler for this collector's
// registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
