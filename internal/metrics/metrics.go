// Package metrics exposes Prometheus instrumentation for the API and the
// valuation engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Valuation outcomes other than a domain error code.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds all PropData metrics on a private registry.
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Valuation metrics
	ValuationsTotal     *prometheus.CounterVec
	ValuationTotalValue *prometheus.HistogramVec

	// History metrics
	HistoryWrites *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "propdata",
	}
}

// New creates a new Metrics instance
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"service", "method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being processed",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.ValuationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "valuations_total",
			Help:      "Total number of valuation requests by property class and outcome",
		},
		[]string{"service", "class", "outcome"},
	)

	// 1 lakh to 100 crore PKR
	m.ValuationTotalValue = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "valuation_total_value_pkr",
			Help:      "Distribution of estimated total values",
			Buckets:   prometheus.ExponentialBuckets(1e5, 10, 5),
		},
		[]string{"service", "class"},
	)

	m.HistoryWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "history_writes_total",
			Help:      "Total number of valuation history writes",
		},
		[]string{"service", "store", "status"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.ValuationsTotal,
		m.ValuationTotalValue,
		m.HistoryWrites,
	)

	return m
}

// Handler returns an HTTP handler for metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// RecordValuation records a successful valuation and its total value.
func (m *Metrics) RecordValuation(class string, totalValue float64) {
	m.ValuationsTotal.WithLabelValues(m.serviceName, class, OutcomeSuccess).Inc()
	m.ValuationTotalValue.WithLabelValues(m.serviceName, class).Observe(totalValue)
}

// RecordValuationFailure records a rejected valuation. outcome is a short
// error code such as "unknown_area".
func (m *Metrics) RecordValuationFailure(class, outcome string) {
	m.ValuationsTotal.WithLabelValues(m.serviceName, class, outcome).Inc()
}

// RecordHistoryWrite records the result of saving a valuation to history.
func (m *Metrics) RecordHistoryWrite(store string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.HistoryWrites.WithLabelValues(m.serviceName, store, status).Inc()
}

// IncrementHTTPRequestsInFlight increments in-flight requests
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements in-flight requests
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
