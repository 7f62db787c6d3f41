package rabbitmq

// Ключи маршрутизации событий биллинга.
const (
	RoutingBookingCancelled = "booking.cancelled"
	RoutingRefundProcessed  = "refund.processed"
)

// QueueBookingCancelled очередь воркера автоматических возвратов.
const QueueBookingCancelled = "billing.booking.cancelled"

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// RefundWorkerQueues возвращает очереди, которые слушает воркер возвратов.
func RefundWorkerQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueBookingCancelled, RoutingKey: RoutingBookingCancelled},
	}
}
