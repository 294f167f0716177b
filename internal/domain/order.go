package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Zipcode   string `bson:"zipcode" json:"zipcode"`
	Country   string `bson:"country" json:"country"`
	Phone     string `bson:"phone" json:"phone"`
}

// OrderItem is a snapshot of a catalog entry taken when the order is placed.
type OrderItem struct {
	FoodID   primitive.ObjectID `bson:"_id" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Order amount is stored in rupees and never recomputed after placement.
type Order struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID  string             `bson:"userId" json:"userId"`
	Items   []OrderItem        `bson:"items" json:"items"`
	Amount  float64            `bson:"amount" json:"amount"`
	Address Address            `bson:"address" json:"address"`
	Status  OrderStatus        `bson:"status" json:"status"`
	Date    time.Time          `bson:"date" json:"date"`
	Payment bool               `bson:"payment" json:"payment"`
}
