package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_food/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrFoodNotFound  = errors.New("food not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrUserNotFound  = errors.New("user not found")
)

// FoodRepository is the read side of the catalog.
type FoodRepository interface {
	GetFood(ctx context.Context, id primitive.ObjectID) (*domain.Food, error)
	ListFoods(ctx context.Context) ([]domain.Food, error)
}

type UserRepository interface {
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	SetPayment(ctx context.Context, id primitive.ObjectID, paid bool) error
	DeleteOrder(ctx context.Context, id primitive.ObjectID) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) error
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}
