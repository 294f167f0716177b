package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_food/internal/domain"
)

type FoodLister interface {
	ListFoods(ctx context.Context) ([]domain.Food, error)
}

type FoodHandler struct {
	foods   FoodLister
	timeout time.Duration
}

func NewFoodHandler(foods FoodLister, timeout time.Duration) *FoodHandler {
	return &FoodHandler{
		foods:   foods,
		timeout: timeout,
	}
}

// GET /api/food/list
func (h *FoodHandler) ListFoods(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	foods, err := h.foods.ListFoods(ctx)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: foods})
}
