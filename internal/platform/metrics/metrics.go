package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway
type Metrics struct {
	Requests        *prometheus.CounterVec
	AuthFailures    *prometheus.CounterVec
	BackendLatency  *prometheus.HistogramVec
	BackendFailures *prometheus.CounterVec
	EndpointLatency *prometheus.HistogramVec
	BreakerOpen     *prometheus.GaugeVec
}

// New creates all gateway metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "paaa_requests_total",
			Help: "Total number of dispatched operations, labeled by operation and outcome",
		}, []string{"operation", "outcome"}),
		// - Auth failures per minute (rate)
		AuthFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "paaa_auth_failures_total",
			Help: "Total number of rejected authorizations, labeled by operation and reason",
		}, []string{"operation", "reason"}),
		BackendLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paaa_backend_latency_seconds",
			Help:    "Latency of ILS calls in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		BackendFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "paaa_backend_failures_total",
			Help: "Total number of failed ILS calls, labeled by operation and category",
		}, []string{"operation", "category"}),
		// - Latency per endpoint (histogram)
		EndpointLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paaa_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		BreakerOpen: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "paaa_circuit_breaker_open",
			Help: "1 while the named circuit breaker is open",
		}, []string{"breaker"}),
	}
}

// IncrementRequests counts one dispatched operation.
func (m *Metrics) IncrementRequests(operation, outcome string) {
	m.Requests.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) IncrementAuthFailures(operation, reason string) {
	m.AuthFailures.WithLabelValues(operation, reason).Inc()
}

// ObserveBackendLatency records the duration of one ILS call.
func (m *Metrics) ObserveBackendLatency(operation string, durationSeconds float64) {
	m.BackendLatency.WithLabelValues(operation).Observe(durationSeconds)
}

func (m *Metrics) IncrementBackendFailures(operation, category string) {
	m.BackendFailures.WithLabelValues(operation, category).Inc()
}

// ObserveEndpointLatency records the latency for a given endpoint
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}

// SetBreakerOpen flips the breaker gauge for name.
func (m *Metrics) SetBreakerOpen(name string, open bool) {
	v := 0.0
	if open {
		v = 1
	}
	m.BreakerOpen.WithLabelValues(name).Set(v)
}
