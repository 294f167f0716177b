package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/metrics"
	"github.com/fjod/go_food/internal/payment"
	"github.com/fjod/go_food/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FoodLookup interface {
	GetFood(ctx context.Context, id primitive.ObjectID) (*domain.Food, error)
}

// SessionLedger keeps a record of checkout sessions outside the order store.
type SessionLedger interface {
	RecordSession(ctx context.Context, s *domain.PaymentSession) error
	RecordOutcome(ctx context.Context, orderID string, status domain.PaymentSessionStatus) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
}

// Deps wires the order service. Ledger, Events and Metrics are optional;
// a zero Pricing means domain.DefaultPricing.
type Deps struct {
	Orders      repository.OrderRepository
	Users       repository.UserRepository
	Catalog     FoodLookup
	Gateway     payment.Gateway
	Ledger      SessionLedger
	Events      EventPublisher
	Metrics     *metrics.Metrics
	FrontendURL string
	Pricing     domain.Pricing
}

type OrderService struct {
	orders            repository.OrderRepository
	users             repository.UserRepository
	catalog           FoodLookup
	gateway           payment.Gateway
	ledger            SessionLedger
	events            EventPublisher
	metrics           *metrics.Metrics
	frontendURL       string
	pricing           domain.Pricing
	sideEffectTimeout time.Duration
}

func NewOrderService(d Deps) *OrderService {
	pricing := d.Pricing
	if pricing.ConversionRate == 0 {
		pricing = domain.DefaultPricing()
	}
	return &OrderService{
		orders:            d.Orders,
		users:             d.Users,
		catalog:           d.Catalog,
		gateway:           d.Gateway,
		ledger:            d.Ledger,
		events:            d.Events,
		metrics:           d.Metrics,
		frontendURL:       d.FrontendURL,
		pricing:           pricing,
		sideEffectTimeout: 3 * time.Second,
	}
}

type PlaceOrderRequest struct {
	UserID  string
	Items   []CartLine
	Address domain.Address
}

type PlaceOrderResult struct {
	OrderID    string
	SessionURL string
	Amount     float64
}

// PlaceOrder prices the cart, stores the order, empties the user's cart and
// opens a hosted checkout session. The order and cart writes are independent.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		s.metrics.OrderRejected("invalid_user")
		return nil, ErrInvalidUserID
	}

	if len(req.Items) == 0 {
		s.metrics.OrderRejected("empty_cart")
		return nil, ErrEmptyCart
	}

	q, err := s.priceCart(ctx, req.Items)
	if errors.Is(err, ErrQuantityLimit) || errors.Is(err, ErrOrderTooLarge) {
		s.metrics.OrderRejected("too_large")
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to price cart: %w", err)
	}

	if q.totalPaise < s.pricing.MinOrderPaise {
		s.metrics.OrderRejected("below_minimum")
		return nil, ErrBelowMinimum
	}

	amount := domain.MoneyFromPaise(q.totalPaise)
	order := &domain.Order{
		UserID:  req.UserID,
		Items:   q.items,
		Amount:  amount.Float64(),
		Address: req.Address,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	orderID := order.ID.Hex()

	if err := s.users.ClearCart(ctx, userID); err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		log.Printf("order %s placed for unknown user %s, no cart to clear", orderID, req.UserID)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		OrderID:    orderID,
		Currency:   amount.CurrencyCode(),
		LineItems:  q.lineItems,
		SuccessURL: s.verifyURL(true, orderID),
		CancelURL:  s.verifyURL(false, orderID),
	})
	if err != nil {
		return nil, err
	}

	s.recordSession(ctx, &domain.PaymentSession{
		OrderID:     orderID,
		ProviderID:  session.ID,
		URL:         session.URL,
		AmountPaise: q.totalPaise,
		Currency:    amount.CurrencyCode(),
	})

	event := domain.NewOrderEvent(domain.OrderEventPlaced, orderID)
	event.UserID = req.UserID
	event.Amount = order.Amount
	event.Status = order.Status.String()
	s.publish(ctx, event)

	s.metrics.OrderPlaced(order.Amount)
	log.Printf("order %s placed by %s for %.2f %s", orderID, req.UserID, order.Amount, amount.Currency)

	return &PlaceOrderResult{
		OrderID:    orderID,
		SessionURL: session.URL,
		Amount:     order.Amount,
	}, nil
}

func (s *OrderService) verifyURL(success bool, orderID string) string {
	return fmt.Sprintf("%s/verify?success=%t&orderId=%s", s.frontendURL, success, orderID)
}

// VerifyOrder trusts the outcome reported by the redirect target: it is not
// checked against the payment provider.
func (s *OrderService) VerifyOrder(ctx context.Context, orderID string, success bool) error {
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return ErrInvalidOrderID
	}

	if success {
		if err := s.orders.SetPayment(ctx, id, true); err != nil {
			if !errors.Is(err, repository.ErrOrderNotFound) {
				return err
			}
			log.Printf("payment reported for missing order %s", orderID)
		}
		s.recordOutcome(ctx, orderID, domain.PaymentSessionPaid)
		s.publish(ctx, domain.NewOrderEvent(domain.OrderEventPaid, orderID))
		s.metrics.PaymentVerified("paid")
		return nil
	}

	if err := s.orders.DeleteOrder(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrOrderNotFound) {
			return err
		}
		log.Printf("cancelled order %s was already gone", orderID)
	}
	s.recordOutcome(ctx, orderID, domain.PaymentSessionCancelled)
	s.publish(ctx, domain.NewOrderEvent(domain.OrderEventCancelled, orderID))
	s.metrics.PaymentVerified("cancelled")
	return nil
}

func (s *OrderService) UserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if !primitive.IsValidObjectID(userID) {
		return nil, ErrInvalidUserID
	}
	return s.orders.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

// UpdateStatus sets any status string; no transitions are enforced.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) error {
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return ErrInvalidOrderID
	}

	if err := s.orders.UpdateStatus(ctx, id, domain.OrderStatus(status)); err != nil {
		if !errors.Is(err, repository.ErrOrderNotFound) {
			return err
		}
		log.Printf("status update for missing order %s", orderID)
		return nil
	}

	event := domain.NewOrderEvent(domain.OrderEventStatusUpdated, orderID)
	event.Status = status
	s.publish(ctx, event)
	return nil
}

func (s *OrderService) recordSession(ctx context.Context, ps *domain.PaymentSession) {
	if s.ledger == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sideEffectTimeout)
	defer cancel()
	if err := s.ledger.RecordSession(ctx, ps); err != nil {
		log.Printf("failed to record payment session for order %s: %v", ps.OrderID, err)
	}
}

func (s *OrderService) recordOutcome(ctx context.Context, orderID string, status domain.PaymentSessionStatus) {
	if s.ledger == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sideEffectTimeout)
	defer cancel()
	if err := s.ledger.RecordOutcome(ctx, orderID, status); err != nil {
		log.Printf("failed to record %s for order %s: %v", status, orderID, err)
	}
}

func (s *OrderService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sideEffectTimeout)
	defer cancel()
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("failed to publish %s for order %s: %v", event.Type, event.OrderID, err)
	}
}
