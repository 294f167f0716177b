package payment

import (
	"context"
	"errors"
)

// ErrUnavailable is returned while the provider is considered down.
var ErrUnavailable = errors.New("payment provider unavailable")

type LineItem struct {
	Name string
	// UnitAmount is in the smallest currency unit (paise for inr).
	UnitAmount int64
	Quantity   int64
}

type CheckoutRequest struct {
	OrderID    string
	Currency   string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
}

type Session struct {
	ID  string
	URL string
}

// Gateway creates hosted checkout sessions.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error)
}
