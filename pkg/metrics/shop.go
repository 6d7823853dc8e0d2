package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ShopMetrics records storefront and back-office activity.
type ShopMetrics struct {
	checkoutOrders *prometheus.CounterVec
	orderValue     prometheus.Histogram
	mediaUploads   *prometheus.CounterVec
	sessionEvents  *prometheus.CounterVec
}

// NewShopMetrics registers the shop metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	if reg == nil {
		return &ShopMetrics{}
	}
	checkoutOrders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_total",
		Help: "Checkout order placement attempts by result.",
	}, []string{"result"})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_order_total_usd",
		Help:    "Grand total of placed orders.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000},
	})
	mediaUploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_uploads_total",
		Help: "Product image uploads by result.",
	}, []string{"result"})
	sessionEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_session_events_total",
		Help: "Admin session changes by event.",
	}, []string{"event"})
	reg.MustRegister(checkoutOrders, orderValue, mediaUploads, sessionEvents)
	return &ShopMetrics{
		checkoutOrders: checkoutOrders,
		orderValue:     orderValue,
		mediaUploads:   mediaUploads,
		sessionEvents:  sessionEvents,
	}
}

// ObserveOrderPlaced counts a successful checkout and records its total.
func (m *ShopMetrics) ObserveOrderPlaced(total decimal.Decimal) {
	if m == nil || m.checkoutOrders == nil {
		return
	}
	m.checkoutOrders.WithLabelValues(ResultSuccess).Inc()
	m.orderValue.Observe(total.InexactFloat64())
}

// IncCheckoutFailure counts a checkout whose order insert failed.
func (m *ShopMetrics) IncCheckoutFailure() {
	if m == nil || m.checkoutOrders == nil {
		return
	}
	m.checkoutOrders.WithLabelValues(ResultFailure).Inc()
}

// IncUpload counts one image upload attempt.
func (m *ShopMetrics) IncUpload(result string) {
	if m == nil || m.mediaUploads == nil {
		return
	}
	m.mediaUploads.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncSessionEvent counts a session change such as signed_in.
func (m *ShopMetrics) IncSessionEvent(event string) {
	if m == nil || m.sessionEvents == nil {
		return
	}
	m.sessionEvents.WithLabelValues(normalizeLabel(event)).Inc()
}

// Handler exposes the gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
