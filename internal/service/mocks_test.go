package service

import (
	"context"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fjod/go_food/internal/cache"
	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/payment"
	"github.com/fjod/go_food/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockOrderRepository struct {
	m         sync.RWMutex
	orders    map[primitive.ObjectID]*domain.Order
	createErr error
	err       error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[primitive.ObjectID]*domain.Order)}
}

func (m *mockOrderRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = primitive.NewObjectID()
	if order.Status == "" {
		order.Status = domain.OrderStatusFoodProcessing
	}
	stored := *order
	m.orders[order.ID] = &stored
	return nil
}

func (m *mockOrderRepository) GetOrder(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepository) SetPayment(_ context.Context, id primitive.ObjectID, paid bool) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Payment = paid
	return nil
}

func (m *mockOrderRepository) DeleteOrder(_ context.Context, id primitive.ObjectID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *mockOrderRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.OrderStatus) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (m *mockOrderRepository) ListOrdersByUser(_ context.Context, userID string) ([]domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	orders := make([]domain.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *mockOrderRepository) ListOrders(context.Context) ([]domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	orders := make([]domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (m *mockOrderRepository) count() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.orders)
}

type mockUserRepository struct {
	m     sync.RWMutex
	carts map[primitive.ObjectID]map[string]int
	err   error
}

func (m *mockUserRepository) ClearCart(_ context.Context, userID primitive.ObjectID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.carts[userID]; !ok {
		return repository.ErrUserNotFound
	}
	m.carts[userID] = map[string]int{}
	return nil
}

func (m *mockUserRepository) cart(userID primitive.ObjectID) map[string]int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.carts[userID]
}

type mockCatalog struct {
	m     sync.RWMutex
	foods map[primitive.ObjectID]*domain.Food
	err   error
}

func (m *mockCatalog) GetFood(_ context.Context, id primitive.ObjectID) (*domain.Food, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	f, ok := m.foods[id]
	if !ok {
		return nil, repository.ErrFoodNotFound
	}
	return f, nil
}

type mockGateway struct {
	m   sync.RWMutex
	req *payment.CheckoutRequest
	err error
}

func (g *mockGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.Session, error) {
	g.m.Lock()
	defer g.m.Unlock()
	g.req = &req
	if g.err != nil {
		return nil, g.err
	}
	return &payment.Session{ID: "cs_test_" + req.OrderID, URL: "https://checkout.stripe.com/c/pay/" + req.OrderID}, nil
}

type mockLedger struct {
	m        sync.RWMutex
	sessions []*domain.PaymentSession
	outcomes map[string]domain.PaymentSessionStatus
	err      error
}

func (l *mockLedger) RecordSession(_ context.Context, s *domain.PaymentSession) error {
	l.m.Lock()
	defer l.m.Unlock()
	if l.err != nil {
		return l.err
	}
	l.sessions = append(l.sessions, s)
	return nil
}

func (l *mockLedger) RecordOutcome(_ context.Context, orderID string, status domain.PaymentSessionStatus) error {
	l.m.Lock()
	defer l.m.Unlock()
	if l.err != nil {
		return l.err
	}
	if l.outcomes == nil {
		l.outcomes = make(map[string]domain.PaymentSessionStatus)
	}
	l.outcomes[orderID] = status
	return nil
}

type mockPublisher struct {
	m      sync.RWMutex
	events []domain.OrderEvent
	err    error
}

func (p *mockPublisher) Publish(_ context.Context, e domain.OrderEvent) error {
	p.m.Lock()
	defer p.m.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *mockPublisher) types() []domain.OrderEventType {
	p.m.RLock()
	defer p.m.RUnlock()
	types := make([]domain.OrderEventType, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type mockFoodRepository struct {
	m     sync.RWMutex
	food  *domain.Food
	calls int
	err   error
}

func (m *mockFoodRepository) GetFood(context.Context, primitive.ObjectID) (*domain.Food, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.food, nil
}

func (m *mockFoodRepository) ListFoods(context.Context) ([]domain.Food, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Food{*m.food}, nil
}

func (m *mockFoodRepository) callCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.calls
}

type mockCache struct {
	m       sync.RWMutex
	food    *domain.Food
	err     error
	deletes int
}

func (m *mockCache) Get(context.Context, string) (*domain.Food, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.food == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.food, nil
}

func (m *mockCache) Set(_ context.Context, food *domain.Food) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.food = food
	return nil
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deletes++
	m.food = nil
	m.err = nil
	return nil
}

func (m *mockCache) deleteCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.deletes
}

func (m *mockCache) cached() *domain.Food {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.food
}

func fakeAddress() domain.Address {
	addr := gofakeit.Address()
	return domain.Address{
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Email:     gofakeit.Email(),
		Street:    addr.Street,
		City:      addr.City,
		State:     addr.State,
		Zipcode:   addr.Zip,
		Country:   addr.Country,
		Phone:     gofakeit.Phone(),
	}
}
