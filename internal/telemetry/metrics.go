// Package telemetry exposes prometheus instrumentation for the API server.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters the order flow reports.
type Metrics struct {
	registry *prometheus.Registry

	OrdersPlaced   prometheus.Counter
	OrderFailures  *prometheus.CounterVec
	StockConflicts prometheus.Counter
}

// New creates a Metrics set on its own registry so tests stay isolated.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		OrdersPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Orders successfully placed.",
		}),
		OrderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "order_failures_total",
			Help: "Failed order placements by reason.",
		}, []string{"reason"}),
		StockConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "stock_conflicts_total",
			Help: "Placements rejected because stock ran out.",
		}),
	}
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
