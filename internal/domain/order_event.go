package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderEventType string

const (
	OrderEventPlaced        OrderEventType = "order.placed"
	OrderEventPaid          OrderEventType = "order.paid"
	OrderEventCancelled     OrderEventType = "order.cancelled"
	OrderEventStatusUpdated OrderEventType = "order.status_updated"
)

// OrderEvent is published on every order state change.
type OrderEvent struct {
	ID         uuid.UUID      `json:"id"`
	Type       OrderEventType `json:"type"`
	OrderID    string         `json:"order_id"`
	UserID     string         `json:"user_id,omitempty"`
	Amount     float64        `json:"amount,omitempty"`
	Status     string         `json:"status,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func NewOrderEvent(t OrderEventType, orderID string) OrderEvent {
	return OrderEvent{
		ID:         uuid.New(),
		Type:       t,
		OrderID:    orderID,
		OccurredAt: time.Now().UTC(),
	}
}
