package repository

import (
	"context"
	"time"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	_, err := r.collection.InsertOne(ctx, user)
	return translate(err)
}

func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, setWithTimestamp(updates))
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *UserRepository) UpdatePasswordByEmail(ctx context.Context, email, hash string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"email": email}, setWithTimestamp(bson.M{"password": hash}))
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.collection, id)
}

// userFilter translates q into a Mongo filter.
func userFilter(q UserQuery) bson.M {
	filter := bson.M{}
	if q.ExcludeRole != "" {
		filter["role"] = bson.M{"$ne": q.ExcludeRole}
	}
	if q.Name != "" {
		re := literalRegex(q.Name)
		filter["$or"] = bson.A{
			bson.M{"firstName": re},
			bson.M{"lastName": re},
			bson.M{"email": re},
		}
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.MinSpent != nil {
		filter["totalSpent"] = bson.M{"$gt": *q.MinSpent}
	}
	if q.CreatedAfter != nil {
		filter["createdAt"] = bson.M{"$gte": *q.CreatedAfter}
	}
	return filter
}

func (r *UserRepository) List(ctx context.Context, q UserQuery, limit, skip int64) ([]models.User, int64, error) {
	filter := userFilter(q)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ClearDefaultAddresses unsets isDefault on every address of the user.
func (r *UserRepository) ClearDefaultAddresses(ctx context.Context, userID primitive.ObjectID) error {
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"elem.isDefault": true}},
	})
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"addresses.$[elem].isDefault": false}},
		opts,
	)
	return err
}

func (r *UserRepository) PushAddress(ctx context.Context, userID primitive.ObjectID, addr models.Address) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"addresses": addr},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	return err
}

// SetAddress replaces the address with addr.ID; false means no such address.
func (r *UserRepository) SetAddress(ctx context.Context, userID primitive.ObjectID, addr models.Address) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "addresses._id": addr.ID},
		bson.M{"$set": bson.M{
			"addresses.$": addr,
			"updatedAt":   time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *UserRepository) PullAddress(ctx context.Context, userID, addressID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"addresses": bson.M{"_id": addressID}}},
	)
	return err
}

// RecordOrder bumps the purchase aggregates in a single atomic update.
func (r *UserRepository) RecordOrder(ctx context.Context, userID primitive.ObjectID, amount float64, at time.Time) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$inc": bson.M{"totalOrders": 1, "totalSpent": amount},
			"$set": bson.M{"lastOrder": at, "updatedAt": time.Now().UTC()},
		},
	)
	return err
}
