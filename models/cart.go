package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	ProductID  primitive.ObjectID `bson:"productId" json:"productId"`
	Product    Product            `bson:"product" json:"product"`
	Color      string             `bson:"color" json:"color"`
	Size       string             `bson:"size" json:"size"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	UnitPrice  float64            `bson:"unitPrice" json:"unitPrice"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
}

// Matches reports whether the line holds the given product variant.
func (i CartItem) Matches(productID primitive.ObjectID, color, size string) bool {
	return i.ProductID == productID && i.Color == color && i.Size == size
}

// Cart is the single per-user cart document.
type Cart struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []CartItem         `bson:"items" json:"items"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	VoucherCode     *string            `bson:"voucherCode" json:"voucherCode"`
	VoucherDiscount float64            `bson:"voucherDiscount" json:"voucherDiscount"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasProduct reports whether any line references productID.
func (c *Cart) HasProduct(productID primitive.ObjectID) bool {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// FlexInt decodes a JSON number or a numeric string.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("quantity must be numeric: %w", err)
	}
	*f = FlexInt(n)
	return nil
}

// CartItemRequest is the body of POST/PUT/DELETE /cart.
type CartItemRequest struct {
	ProductID string  `json:"productId"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
	Quantity  FlexInt `json:"quantity"`
}
