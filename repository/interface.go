package repository

import (
	"context"
	"errors"
	"time"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate key")
)

// UserQuery narrows the admin user list. Zero values are ignored.
type UserQuery struct {
	Name         string
	Status       string
	MinSpent     *float64
	CreatedAfter *time.Time
	ExcludeRole  string
}

// ProductQuery narrows the catalog list. Zero values are ignored.
type ProductQuery struct {
	Title        string
	FeaturedOnly bool
	BelowStock   *int
	Material     string
}

// SortSpec orders a listing by one field; Desc flips the direction.
type SortSpec struct {
	Field string
	Desc  bool
}

type UserRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (bool, error)
	UpdatePasswordByEmail(ctx context.Context, email, hash string) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	List(ctx context.Context, q UserQuery, limit, skip int64) ([]models.User, int64, error)
	ClearDefaultAddresses(ctx context.Context, userID primitive.ObjectID) error
	PushAddress(ctx context.Context, userID primitive.ObjectID, addr models.Address) error
	SetAddress(ctx context.Context, userID primitive.ObjectID, addr models.Address) (bool, error)
	PullAddress(ctx context.Context, userID, addressID primitive.ObjectID) error
	RecordOrder(ctx context.Context, userID primitive.ObjectID, amount float64, at time.Time) error
}

type ProductRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, q ProductQuery, sort SortSpec, limit, skip int64) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type CartRepo interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	SaveItems(ctx context.Context, cart *models.Cart) error
	SetVoucher(ctx context.Context, cartID primitive.ObjectID, code *string, discount float64) error
}

type VoucherRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Voucher, error)
	FindByCode(ctx context.Context, code string) (*models.Voucher, error)
	Create(ctx context.Context, voucher *models.Voucher) error
	List(ctx context.Context, limit, skip int64) ([]models.Voucher, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Voucher, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	AddParticipant(ctx context.Context, id primitive.ObjectID, p models.Participant) error
	IncParticipantUses(ctx context.Context, id primitive.ObjectID, index, delta int) error
}

type OrderRepo interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	List(ctx context.Context, status string, limit, skip int64) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Order, error)
}

type SettingsRepo interface {
	Latest(ctx context.Context) (*models.Settings, error)
	List(ctx context.Context) ([]models.Settings, error)
	Create(ctx context.Context, s *models.Settings) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Settings, error)
}
