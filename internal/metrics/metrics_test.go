package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OrderPlaced(16160)
	m.OrderRejected("below_minimum")
	m.OrderRejected("below_minimum")
	m.PaymentVerified("paid")
	m.ItemSkipped()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersPlaced))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.orderRejected.WithLabelValues("below_minimum")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("paid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skippedItems))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderPlaced(1)
		m.OrderRejected("x")
		m.PaymentVerified("paid")
		m.ItemSkipped()
	})
}
