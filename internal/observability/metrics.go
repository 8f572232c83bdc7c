// Package observability provides the Prometheus metrics collector for the
// CRM API. It implements core.MetricsCollector and exposes a scrape handler
// mounted at /metrics.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus counters and histograms for the API.
type Metrics struct {
	registry *prometheus.Registry

	RequestCount    *prometheus.CounterVec   // labels: method, endpoint, status
	RequestDuration *prometheus.HistogramVec // labels: method, endpoint
	WeatherLookups  *prometheus.CounterVec   // labels: source={current,forecast}, outcome={success,error}
}

// NewMetrics creates all API metrics registered on a private registry, so
// multiple instances (tests, parallel servers) never collide.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		RequestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrodrone",
			Name:      "http_requests_total",
			Help:      "API requests by method, endpoint and status code.",
		}, []string{"method", "endpoint", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agrodrone",
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by method and endpoint.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "endpoint"}),
		WeatherLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agrodrone",
			Name:      "weather_lookups_total",
			Help:      "Upstream weather lookups by source endpoint and outcome.",
		}, []string{"source", "outcome"}),
	}

	registry.MustRegister(
		m.RequestCount,
		m.RequestDuration,
		m.WeatherLookups,
	)

	return m
}

// RecordRequest implements core.MetricsCollector.
func (m *Metrics) RecordRequest(method, endpoint, status string, duration time.Duration) {
	m.RequestCount.WithLabelValues(method, endpoint, status).Inc()
	m.RequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordWeatherLookup counts an upstream weather call.
func (m *Metrics) RecordWeatherLookup(source string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.WeatherLookups.WithLabelValues(source, outcome).Inc()
}

// Handler returns the Prometheus scrape handler for this collector's
// registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
