package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiscountType is the kind of reduction a voucher grants.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Participant records how many times a user redeemed a voucher.
type Participant struct {
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Uses   int                `bson:"uses" json:"uses"`
}

// Voucher is a discount scoped to a single product.
type Voucher struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	ProductID    primitive.ObjectID `bson:"productId" json:"productId"`
	DiscountType DiscountType       `bson:"discountType" json:"discountType"`
	Discount     float64            `bson:"discount" json:"discount"`
	Code         string             `bson:"code" json:"code"`
	Participants []Participant      `bson:"participants" json:"participants"`
	MaxUses      int                `bson:"maxUses" json:"maxUses"`
	ExpiresAt    time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UsesBy sums the uses recorded across every participant row of userID.
func (v *Voucher) UsesBy(userID primitive.ObjectID) int {
	total := 0
	for _, p := range v.Participants {
		if p.UserID == userID {
			total += p.Uses
		}
	}
	return total
}

// FirstParticipant returns the first row recorded for userID.
func (v *Voucher) FirstParticipant(userID primitive.ObjectID) (Participant, bool) {
	for _, p := range v.Participants {
		if p.UserID == userID {
			return p, true
		}
	}
	return Participant{}, false
}

// LastParticipantIndex returns the index of the most recent row for userID, or -1.
func (v *Voucher) LastParticipantIndex(userID primitive.ObjectID) int {
	for i := len(v.Participants) - 1; i >= 0; i-- {
		if v.Participants[i].UserID == userID {
			return i
		}
	}
	return -1
}

// VoucherRequest is the admin create/update payload.
type VoucherRequest struct {
	Name         string       `json:"name" binding:"required"`
	ProductID    string       `json:"productId" binding:"required"`
	DiscountType DiscountType `json:"discountType" binding:"required,oneof=percentage fixed"`
	Discount     float64      `json:"discount" binding:"gte=0"`
	Code         string       `json:"code" binding:"required"`
	MaxUses      int          `json:"maxUses" binding:"gte=0"`
	ExpiresAt    time.Time    `json:"expiresAt" binding:"required"`
}

// ApplyVoucherRequest is the body of POST /voucher/apply.
type ApplyVoucherRequest struct {
	VoucherCode string `json:"voucherCode"`
}

// ApplyVoucherResult is returned after a voucher is applied.
type ApplyVoucherResult struct {
	Discount   float64 `json:"discount"`
	TotalPrice float64 `json:"totalPrice"`
}

// VoucherAppliedEvent is published when a voucher is redeemed.
type VoucherAppliedEvent struct {
	EventType string    `json:"event_type"`
	VoucherID string    `json:"voucher_id"`
	Code      string    `json:"code"`
	UserID    string    `json:"user_id"`
	Discount  float64   `json:"discount"`
	CartTotal float64   `json:"cart_total"`
	Timestamp time.Time `json:"timestamp"`
}
