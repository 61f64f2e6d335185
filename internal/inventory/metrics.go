package inventory

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics counts ledger outcomes and tracks the shape of the last
// saved Dataset. A nil *LedgerMetrics records nothing.
type LedgerMetrics struct {
	ops           *prometheus.CounterVec
	products      prometheus.Gauge
	stockUnits    prometheus.Gauge
	activeRentals prometheus.Gauge
}

func NewLedgerMetrics(reg prometheus.Registerer, namespace string) *LedgerMetrics {
	m := &LedgerMetrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Ledger operations by outcome",
		}, []string{"operation", "outcome"}),
		products: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "products",
			Help:      "Products in the last saved dataset",
		}),
		stockUnits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stock_units",
			Help:      "Sum of product quantities in the last saved dataset",
		}),
		activeRentals: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rentals",
			Help:      "Rentals not yet returned in the last saved dataset",
		}),
	}

	reg.MustRegister(m.ops, m.products, m.stockUnits, m.activeRentals)
	return m
}

func (m *LedgerMetrics) observe(op string, err error) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(op, outcome(err)).Inc()
}

func (m *LedgerMetrics) snapshot(d *Dataset) {
	if m == nil {
		return
	}

	units := 0
	for _, p := range d.Products {
		units += p.Quantity
	}
	active := 0
	for _, r := range d.Rentals {
		if r.Status == RentalActive {
			active++
		}
	}

	m.products.Set(float64(len(d.Products)))
	m.stockUnits.Set(float64(units))
	m.activeRentals.Set(float64(active))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrProductExists):
		return "duplicate"
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrOutOfStock):
		return "no_stock"
	case errors.Is(err, ErrInvalidProduct), errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidRental):
		return "invalid"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "error"
	}
}
