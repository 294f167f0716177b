package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fjod/go_food/internal/service"
)

const (
	msgInvalidUserID    = "Invalid User ID"
	msgInvalidOrderID   = "Invalid order ID"
	msgInvalidOrderIDUp = "Invalid Order ID"
	msgEmptyCart        = "Cart is empty"
	msgBelowMinimum     = "Minimum order amount is ₹50. Please add more items."
	msgQuantityLimit    = "Item quantity is too large"
	msgOrderTooLarge    = "Order amount is too large"
	msgServerError      = "Server Error"
	msgInvalidBody      = "Invalid request body"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	SessionURL string      `json:"session_url,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Response{
		Success: false,
		Message: message,
	})
}

// handleServiceError maps service errors to client errors; anything else is a 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var message string

	switch {
	case errors.Is(err, service.ErrInvalidUserID):
		message = msgInvalidUserID
	case errors.Is(err, service.ErrInvalidOrderID):
		message = msgInvalidOrderID
	case errors.Is(err, service.ErrEmptyCart):
		message = msgEmptyCart
	case errors.Is(err, service.ErrBelowMinimum):
		message = msgBelowMinimum
	case errors.Is(err, service.ErrQuantityLimit):
		message = msgQuantityLimit
	case errors.Is(err, service.ErrOrderTooLarge):
		message = msgOrderTooLarge
	default:
		log.Printf("request %s failed: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	respondError(w, http.StatusBadRequest, message)
}
