package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "pending"
	PaymentMethodCash    = "cash"
	PaymentStatusPending = "pending"
)

// Order references the cart it was placed from; it has no line items of its own.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	CartID        primitive.ObjectID `bson:"cartId" json:"cartId"`
	Status        string             `bson:"status" json:"status"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus string             `bson:"paymentStatus" json:"paymentStatus"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderStatusRequest is the admin status patch.
type OrderStatusRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// OrderListParams are the admin order-list query parameters.
type OrderListParams struct {
	Limit  int64
	Skip   int64
	Status string
}

// OrderCreatedEvent is published after checkout.
type OrderCreatedEvent struct {
	EventType string    `json:"event_type"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	CartID    string    `json:"cart_id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}
