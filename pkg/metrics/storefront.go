package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart activity, checkout outcomes, and
// platform API latency.
type StorefrontMetrics struct {
	cartOps     *prometheus.CounterVec
	checkout    *prometheus.CounterVec
	backendCall *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutation operations applied.",
	}, []string{"op"})
	checkout := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Terminal checkout flow outcomes.",
	}, []string{"outcome"})
	backendCall := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Duration of platform API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	reg.MustRegister(cartOps, checkout, backendCall)
	return &StorefrontMetrics{
		cartOps:     cartOps,
		checkout:    checkout,
		backendCall: backendCall,
	}
}

// IncCartOp increments the counter for the named cart operation.
func (m *StorefrontMetrics) IncCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCheckoutOutcome increments the counter for a checkout outcome.
func (m *StorefrontMetrics) IncCheckoutOutcome(outcome string) {
	if m == nil || m.checkout == nil {
		return
	}
	m.checkout.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveBackendCall records the duration of a platform API call.
func (m *StorefrontMetrics) ObserveBackendCall(endpoint string, duration time.Duration) {
	if m == nil || m.backendCall == nil {
		return
	}
	m.backendCall.WithLabelValues(normalizeLabel(endpoint)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
