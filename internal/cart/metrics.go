package cart

import "github.com/prometheus/client_golang/prometheus"

type cartMetrics struct {
	syncs         prometheus.Counter
	lines         prometheus.Gauge
	totalQuantity prometheus.Gauge
}

func newCartMetrics(reg prometheus.Registerer) *cartMetrics {
	m := &cartMetrics{
		syncs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_syncs_total",
			Help: "Catalog syncs merged into the cart",
		}),
		lines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cart_lines",
			Help: "Distinct products in the cart",
		}),
		totalQuantity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cart_total_quantity",
			Help: "Cart-wide quantity aggregate",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.syncs, m.lines, m.totalQuantity)
	}
	return m
}

func (m *cartMetrics) observe(c *ShoppingCart) {
	m.lines.Set(float64(c.Len()))
	m.totalQuantity.Set(float64(c.TotalQuantity()))
}
