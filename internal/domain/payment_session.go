package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentSessionStatus string

const (
	PaymentSessionOpen      PaymentSessionStatus = "OPEN"
	PaymentSessionPaid      PaymentSessionStatus = "PAID"
	PaymentSessionCancelled PaymentSessionStatus = "CANCELLED"
)

// PaymentSession records a hosted checkout session created for an order.
type PaymentSession struct {
	ID          uuid.UUID
	OrderID     string
	ProviderID  string
	URL         string
	AmountPaise int64
	Currency    string
	Status      PaymentSessionStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
