package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementRequests("blockpatron", "success")
	m.IncrementRequests("blockpatron", "success")
	m.IncrementRequests("newfee", "unavailable")
	m.IncrementAuthFailures("newfee", "unauthorized")
	m.IncrementBackendFailures("newfee", "outage")
	m.ObserveBackendLatency("blockpatron", 0.02)
	m.ObserveEndpointLatency("/paaa/*", 0.03)
	m.SetBreakerOpen("ils-http", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("blockpatron", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("newfee", "unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthFailures.WithLabelValues("newfee", "unauthorized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendFailures.WithLabelValues("newfee", "outage")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BreakerOpen.WithLabelValues("ils-http")))

	m.SetBreakerOpen("ils-http", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BreakerOpen.WithLabelValues("ils-http")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "paaa_backend_latency_seconds")
	assert.Contains(t, names, "paaa_endpoint_latency_seconds")
}

func TestNewOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
