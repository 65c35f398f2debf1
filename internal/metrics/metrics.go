package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServiceMetrics struct {
	OrdersCreated   prometheus.Counter
	OrdersCancelled prometheus.Counter
	StockMovements  *prometheus.CounterVec
}

func NewServiceMetrics() *ServiceMetrics {
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Total number of orders created.",
	})
	ordersCancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "orders",
		Name:      "cancelled_total",
		Help:      "Total number of orders cancelled.",
	})
	stockMovements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "stock",
		Name:      "movements_total",
		Help:      "Total number of stock ledger entries, by movement type.",
	}, []string{"type"})

	prometheus.MustRegister(ordersCreated, ordersCancelled, stockMovements)
	return &ServiceMetrics{
		OrdersCreated:   ordersCreated,
		OrdersCancelled: ordersCancelled,
		StockMovements:  stockMovements,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
