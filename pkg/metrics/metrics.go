package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart and checkout activity.
type StorefrontMetrics struct {
	cartAdds       prometheus.Counter
	cartRejections *prometheus.CounterVec
	checkouts      prometheus.Counter
	checkoutUnits  prometheus.Counter
	catalogLoad    prometheus.Histogram
}

// NewStorefrontMetrics registers the storefront metrics on the provided
// registerer. A nil registerer yields a no-op recorder.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartAdds := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_adds_total",
		Help: "Items successfully added to the cart.",
	})
	cartRejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_rejections_total",
		Help: "Cart mutations rejected, by reason.",
	}, []string{"reason"})
	checkouts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Completed checkout settlements.",
	})
	checkoutUnits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_units_total",
		Help: "Units of stock committed by checkout settlements.",
	})
	catalogLoad := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_load_seconds",
		Help:    "Duration of catalog source loads in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(cartAdds, cartRejections, checkouts, checkoutUnits, catalogLoad)
	return &StorefrontMetrics{
		cartAdds:       cartAdds,
		cartRejections: cartRejections,
		checkouts:      checkouts,
		checkoutUnits:  checkoutUnits,
		catalogLoad:    catalogLoad,
	}
}

// IncCartAdd increments the successful-add counter.
func (m *StorefrontMetrics) IncCartAdd() {
	if m == nil || m.cartAdds == nil {
		return
	}
	m.cartAdds.Inc()
}

// IncCartRejection increments the rejection counter for the given reason.
func (m *StorefrontMetrics) IncCartRejection(reason string) {
	if m == nil || m.cartRejections == nil {
		return
	}
	m.cartRejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveCheckout records a completed settlement and its unit count.
func (m *StorefrontMetrics) ObserveCheckout(units int) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.Inc()
	m.checkoutUnits.Add(float64(units))
}

// ObserveCatalogLoad records the duration of a catalog load.
func (m *StorefrontMetrics) ObserveCatalogLoad(duration time.Duration) {
	if m == nil || m.catalogLoad == nil {
		return
	}
	m.catalogLoad.Observe(duration.Seconds())
}

func normalizeLabel(reason string) string {
	if reason == "" {
		return "unknown"
	}
	return reason
}
