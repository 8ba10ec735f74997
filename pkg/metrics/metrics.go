package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores de negocio expuestos en /metrics.
var (
	PurchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocknet_purchases_total",
		Help: "Compras procesadas, por resultado.",
	}, []string{"outcome"})

	RestockDispatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocknet_restock_dispatched_total",
		Help: "Solicitudes de reposición drenadas del outbox, por resultado.",
	}, []string{"outcome"})

	DeliveriesConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocknet_deliveries_consumed_total",
		Help: "Mensajes consumidos del broker, por routing key.",
	}, []string{"routing_key"})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocknet_orders_created_total",
		Help: "Órdenes de reposición creadas.",
	})
)
