// Package metrics содержит метрики Prometheus сервиса администрирования заказов.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersFetchedTotal — количество успешных запросов списка доставленных заказов.
	OrdersFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ordersadmin_orders_fetched_total",
		Help: "Total number of successful delivered-orders list fetches.",
	})

	// ReceiptUploadsTotal — количество успешных загрузок чеков.
	ReceiptUploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ordersadmin_receipt_uploads_total",
		Help: "Total number of receipts successfully uploaded.",
	})

	// OrdersMarkedPaidTotal — количество заказов, переведённых в статус Paid.
	OrdersMarkedPaidTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ordersadmin_orders_marked_paid_total",
		Help: "Total number of orders successfully marked as paid.",
	})

	// OperationErrorsTotal — количество ошибок по операциям.
	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ordersadmin_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	// HTTPRequestDuration — длительность обработки HTTP-запросов.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ordersadmin_http_request_duration_seconds",
		Help:    "Duration of HTTP requests handled by the admin UI.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"method", "path"},
	)
)
