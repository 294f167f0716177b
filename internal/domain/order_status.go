package domain

// OrderStatus is set freely by admins; there is no enforced transition table.
type OrderStatus string

const (
	OrderStatusFoodProcessing OrderStatus = "Food Processing"
	OrderStatusOutForDelivery OrderStatus = "Out for delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
)

func (s OrderStatus) String() string {
	return string(s)
}
