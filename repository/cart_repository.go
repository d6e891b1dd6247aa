package repository

import (
	"context"
	"time"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{collection: db.Collection("carts")}
}

func (r *CartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (r *CartRepository) Create(ctx context.Context, cart *models.Cart) error {
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	cart.CreatedAt, cart.UpdatedAt = now, now
	_, err := r.collection.InsertOne(ctx, cart)
	return translate(err)
}

// SaveItems writes the lines and cart total. Voucher fields are untouched.
func (r *CartRepository) SaveItems(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": cart.ID},
		bson.M{"$set": bson.M{
			"items":      cart.Items,
			"totalPrice": cart.TotalPrice,
			"updatedAt":  cart.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetVoucher records the applied voucher; a nil code clears it.
func (r *CartRepository) SetVoucher(ctx context.Context, cartID primitive.ObjectID, code *string, discount float64) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": cartID},
		setWithTimestamp(bson.M{"voucherCode": code, "voucherDiscount": discount}),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
