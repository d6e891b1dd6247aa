package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultLowStockQuantity = 10
	DefaultHighValueSpend   = 1000
)

// Settings holds the dashboard thresholds. Several documents may exist;
// the most recently created one is authoritative.
type Settings struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	QuantityForLowStock int                `bson:"quantityForLowStock" json:"quantityForLowStock"`
	HighValueUserSpents float64            `bson:"highValueUserSpents" json:"highValueUserSpents"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SettingsRequest fields left out of the body are not written.
type SettingsRequest struct {
	QuantityForLowStock *int     `json:"quantityForLowStock"`
	HighValueUserSpents *float64 `json:"highValueUserSpents"`
}

// Thresholds are the effective values after defaults are applied.
type Thresholds struct {
	LowStock  int
	HighValue float64
}
