package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "test")

	m.ObserveHTTPRequest("GET", "/api/v1/businesses", 200, 10*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/v1/businesses", 200, 20*time.Millisecond)
	m.ObserveDBQuery("query", time.Millisecond, errors.New("boom"))
	m.ObserveSlotComputation(7, "ok", 12)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/businesses", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("query")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SlotComputations.WithLabelValues("ok")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
		m.ObserveDBQuery("exec", time.Millisecond, nil)
		m.IncAppointmentsCreated(1)
		m.IncOutboxPublished("appointment.created")
		m.IncRateLimitRejected("memory")
	})
}
