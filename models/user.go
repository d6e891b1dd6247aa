package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Address is one entry of a user's address book.
type Address struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	House     string             `bson:"house" json:"house"`
	Zip       string             `bson:"zip" json:"zip"`
	City      string             `bson:"city" json:"city"`
	IsDefault bool               `bson:"isDefault" json:"isDefault"`
	Label     string             `bson:"label" json:"label"`
}

// LegacyAddress is the single address captured at registration.
type LegacyAddress struct {
	House string `bson:"house" json:"house"`
	Zip   string `bson:"zip" json:"zip"`
	City  string `bson:"city" json:"city"`
}

// User model
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	FirstName   string             `bson:"firstName" json:"firstName"`
	LastName    string             `bson:"lastName" json:"lastName"`
	Phone       string             `bson:"phone" json:"phone"`
	Role        string             `bson:"role,omitempty" json:"role,omitempty"`
	Addresses   []Address          `bson:"addresses" json:"addresses"`
	Address     *LegacyAddress     `bson:"address,omitempty" json:"address,omitempty"`
	TotalSpent  float64            `bson:"totalSpent" json:"totalSpent"`
	TotalOrders int                `bson:"totalOrders" json:"totalOrders"`
	LastOrder   *time.Time         `bson:"lastOrder" json:"lastOrder"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether the account may hold a session.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Phone     string         `json:"phone"`
	Address   *LegacyAddress `json:"address"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the only profile fields a user may change.
type UpdateProfileRequest struct {
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Phone     string         `json:"phone"`
	Address   *LegacyAddress `json:"address"`
}

// AddressRequest is the payload for adding or updating an address.
type AddressRequest struct {
	House     string `json:"house"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Label     string `json:"label"`
	IsDefault bool   `json:"isDefault"`
}

// UserListParams are the admin user-list query parameters.
type UserListParams struct {
	Limit  int64
	Skip   int64
	Name   string
	Filter string
}
