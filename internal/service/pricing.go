package service

import (
	"context"
	"errors"
	"log"
	"math"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/payment"
	"github.com/fjod/go_food/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	deliveryLineName = "Delivery Charges"
	// MaxLineQuantity caps a single cart line.
	MaxLineQuantity = 1000
)

type CartLine struct {
	FoodID   string
	Quantity int
}

type quote struct {
	items      []domain.OrderItem
	lineItems  []payment.LineItem
	totalPaise int64
}

// priceCart snapshots every resolvable line and appends the delivery fee.
// Lines with a malformed id, an unknown food or a non-positive quantity are skipped.
// A quantity above MaxLineQuantity or a total that does not fit in int64 paise
// rejects the whole cart before anything is stored.
func (s *OrderService) priceCart(ctx context.Context, lines []CartLine) (quote, error) {
	var q quote

	for _, line := range lines {
		id, err := primitive.ObjectIDFromHex(line.FoodID)
		if err != nil {
			log.Printf("skipping cart line with invalid food id %q", line.FoodID)
			s.metrics.ItemSkipped()
			continue
		}
		if line.Quantity <= 0 {
			log.Printf("skipping cart line %s with quantity %d", line.FoodID, line.Quantity)
			s.metrics.ItemSkipped()
			continue
		}
		if line.Quantity > MaxLineQuantity {
			return q, ErrQuantityLimit
		}

		food, err := s.catalog.GetFood(ctx, id)
		if errors.Is(err, repository.ErrFoodNotFound) {
			log.Printf("skipping cart line for unknown food %s", line.FoodID)
			s.metrics.ItemSkipped()
			continue
		}
		if err != nil {
			return q, err
		}

		unitPaise := s.pricing.ToPaise(food.Price)
		if q.totalPaise, err = addLine(q.totalPaise, unitPaise, int64(line.Quantity)); err != nil {
			return q, err
		}

		q.items = append(q.items, domain.OrderItem{
			FoodID:   food.ID,
			Name:     food.Name,
			Price:    food.Price,
			Quantity: line.Quantity,
		})
		q.lineItems = append(q.lineItems, payment.LineItem{
			Name:       food.Name,
			UnitAmount: unitPaise,
			Quantity:   int64(line.Quantity),
		})
	}

	deliveryPaise := s.pricing.DeliveryFeePaise()
	q.lineItems = append(q.lineItems, payment.LineItem{
		Name:       deliveryLineName,
		UnitAmount: deliveryPaise,
		Quantity:   1,
	})
	total, err := addLine(q.totalPaise, deliveryPaise, 1)
	if err != nil {
		return q, err
	}
	q.totalPaise = total

	return q, nil
}

// addLine returns total + unit*qty, or ErrOrderTooLarge if that overflows.
func addLine(total, unit, qty int64) (int64, error) {
	if unit < 0 || qty < 0 {
		return 0, ErrOrderTooLarge
	}
	if unit != 0 && qty > (math.MaxInt64-total)/unit {
		return 0, ErrOrderTooLarge
	}
	return total + unit*qty, nil
}
