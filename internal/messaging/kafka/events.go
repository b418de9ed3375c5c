package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderCreated        EventType = "order.created"
	EventTypeOrderStatusChanged  EventType = "order.status_changed"
	EventTypeOrderPaymentUpdated EventType = "order.payment_updated"
	EventTypeOrderDeleted        EventType = "order.deleted"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "backoffice.order.events"
	TopicDeadLetterQueue = "backoffice.dlq" // Dead Letter Queue для failed messages
)

// OrderEvent представляет событие заказа
type OrderEvent struct {
	EventType     EventType              `json:"event_type"`
	OrderID       string                 `json:"order_id"`
	CustomerEmail string                 `json:"customer_email"`
	Status        string                 `json:"status"`
	PaymentStatus string                 `json:"payment_status"`
	TotalMinor    int64                  `json:"total_minor"`
	Timestamp     time.Time              `json:"timestamp"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, customerEmail, status, paymentStatus string, totalMinor int64) *OrderEvent {
	return &OrderEvent{
		EventType:     eventType,
		OrderID:       orderID,
		CustomerEmail: customerEmail,
		Status:        status,
		PaymentStatus: paymentStatus,
		TotalMinor:    totalMinor,
		Timestamp:     time.Now(),
	}
}
