package service

import "errors"

var (
	ErrInvalidUserID  = errors.New("invalid user id")
	ErrInvalidOrderID = errors.New("invalid order id")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrBelowMinimum   = errors.New("order total below minimum amount")
	ErrQuantityLimit  = errors.New("item quantity above limit")
	ErrOrderTooLarge  = errors.New("order total too large")
)
