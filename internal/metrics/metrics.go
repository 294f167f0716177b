package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics methods are safe to call on a nil receiver.
type Metrics struct {
	ordersPlaced  prometheus.Counter
	orderRejected *prometheus.CounterVec
	orderAmount   prometheus.Histogram
	verifications *prometheus.CounterVec
	skippedItems  prometheus.Counter
	gatherer      prometheus.Gatherer
}

func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ordersPlaced: f.NewCounter(prometheus.CounterOpts{
			Namespace: "food",
			Name:      "orders_placed_total",
			Help:      "Orders persisted with a checkout session.",
		}),
		orderRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "food",
			Name:      "orders_rejected_total",
			Help:      "Place-order requests rejected by validation.",
		}, []string{"reason"}),
		orderAmount: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "food",
			Name:      "order_amount_inr",
			Help:      "Stored order amount in rupees.",
			Buckets:   []float64{50, 200, 500, 1000, 2500, 5000, 10000, 25000},
		}),
		verifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "food",
			Name:      "payment_verifications_total",
			Help:      "Payment verification callbacks by outcome.",
		}, []string{"outcome"}),
		skippedItems: f.NewCounter(prometheus.CounterOpts{
			Namespace: "food",
			Name:      "order_items_skipped_total",
			Help:      "Cart lines dropped because the food could not be resolved.",
		}),
		gatherer: reg,
	}
}

func (m *Metrics) OrderPlaced(amount float64) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.orderAmount.Observe(amount)
}

func (m *Metrics) OrderRejected(reason string) {
	if m == nil {
		return
	}
	m.orderRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ItemSkipped() {
	if m == nil {
		return
	}
	m.skippedItems.Inc()
}

func (m *Metrics) PaymentVerified(outcome string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
