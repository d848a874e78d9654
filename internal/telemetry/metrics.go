package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	AggregatorErrors *prometheus.CounterVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pudo_requests_total",
				Help: "Total number of requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pudo_request_duration_seconds",
				Help:    "Request duration in seconds by endpoint",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		AggregatorErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pudo_aggregator_errors_total",
				Help: "Total aggregator API errors by command and error type",
			},
			[]string{"command", "error_type"},
		),
		CacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pudo_location_cache_hits_total",
				Help: "Pickup-point lookups served from the per-country cache",
			},
		),
		CacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pudo_location_cache_misses_total",
				Help: "Pickup-point lookups that had to call the aggregator",
			},
		),
	}
}

// RecordRequest records a request metric.
func (m *Metrics) RecordRequest(endpoint, status string, duration float64) {
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordAggregatorError records an aggregator error metric.
func (m *Metrics) RecordAggregatorError(command, errorType string) {
	m.AggregatorErrors.WithLabelValues(command, errorType).Inc()
}
