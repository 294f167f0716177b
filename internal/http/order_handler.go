package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/go_food/internal/domain"
	"github.com/fjod/go_food/internal/service"
	"github.com/samber/lo"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, req service.PlaceOrderRequest) (*service.PlaceOrderResult, error)
	VerifyOrder(ctx context.Context, orderID string, success bool) error
	UserOrders(ctx context.Context, userID string) ([]domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

type OrderHandler struct {
	orders  OrderService
	timeout time.Duration
}

func NewOrderHandler(orders OrderService, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		timeout: timeout,
	}
}

// OrderItemDTO accepts the full food object the storefront sends; only the
// id and quantity are used.
type OrderItemDTO struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Quantity int     `json:"quantity"`
}

// PlaceOrderRequestDTO.Amount is the client's display total and is ignored.
type PlaceOrderRequestDTO struct {
	UserID  string         `json:"userId"`
	Items   []OrderItemDTO `json:"items"`
	Address domain.Address `json:"address"`
	Amount  float64        `json:"amount,omitempty"`
}

type VerifyOrderRequestDTO struct {
	OrderID string      `json:"orderId"`
	Success successFlag `json:"success"`
}

type UserOrdersRequestDTO struct {
	UserID string `json:"userId"`
}

type UpdateStatusRequestDTO struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// successFlag is true only for the string "true" or the boolean true.
type successFlag bool

func (f *successFlag) UnmarshalJSON(b []byte) error {
	*f = successFlag(bytes.Equal(b, []byte(`"true"`)) || bytes.Equal(b, []byte(`true`)))
	return nil
}

// POST /api/order/place
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if userID := getUserIDFromContext(r.Context()); userID != "" {
		req.UserID = userID
	}

	res, err := h.orders.PlaceOrder(ctx, service.PlaceOrderRequest{
		UserID: req.UserID,
		Items: lo.Map(req.Items, func(item OrderItemDTO, _ int) service.CartLine {
			return service.CartLine{FoodID: item.ID, Quantity: item.Quantity}
		}),
		Address: req.Address,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, SessionURL: res.SessionURL})
}

// POST /api/order/verify
func (h *OrderHandler) VerifyOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req VerifyOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	paid := bool(req.Success)
	if err := h.orders.VerifyOrder(ctx, req.OrderID, paid); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if paid {
		respondJSON(w, http.StatusOK, Response{Success: true, Message: "Payment Successful"})
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: false, Message: "Payment Failed / Order Cancelled"})
}

// POST /api/order/userorders
func (h *OrderHandler) UserOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UserOrdersRequestDTO
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
	}

	if userID := getUserIDFromContext(r.Context()); userID != "" {
		req.UserID = userID
	}

	orders, err := h.orders.UserOrders(ctx, req.UserID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: orders})
}

// GET /api/order/list
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.ListOrders(ctx)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: orders})
}

// POST /api/order/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	err := h.orders.UpdateStatus(ctx, req.OrderID, req.Status)
	if errors.Is(err, service.ErrInvalidOrderID) {
		respondError(w, http.StatusBadRequest, msgInvalidOrderIDUp)
		return
	}
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Order status updated"})
}
