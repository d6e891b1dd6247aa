package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VoucherRepository struct {
	collection *mongo.Collection
}

func NewVoucherRepository(db *mongo.Database) *VoucherRepository {
	return &VoucherRepository{collection: db.Collection("vouchers")}
}

func (r *VoucherRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Voucher, error) {
	var v models.Voucher
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *VoucherRepository) FindByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var v models.Voucher
	if err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&v); err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *VoucherRepository) Create(ctx context.Context, voucher *models.Voucher) error {
	if voucher.ID.IsZero() {
		voucher.ID = primitive.NewObjectID()
	}
	if voucher.Participants == nil {
		voucher.Participants = []models.Participant{}
	}
	now := time.Now().UTC()
	voucher.CreatedAt, voucher.UpdatedAt = now, now
	_, err := r.collection.InsertOne(ctx, voucher)
	return translate(err)
}

func (r *VoucherRepository) List(ctx context.Context, limit, skip int64) ([]models.Voucher, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	vouchers := []models.Voucher{}
	if err := cursor.All(ctx, &vouchers); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return vouchers, total, nil
}

func (r *VoucherRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Voucher, error) {
	var v models.Voucher
	if err := findAndSet(ctx, r.collection, id, updates, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VoucherRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.collection, id)
}

// AddParticipant appends a participant row with $push so concurrent
// redemptions never overwrite each other.
func (r *VoucherRepository) AddParticipant(ctx context.Context, id primitive.ObjectID, p models.Participant) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"participants": p},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncParticipantUses adds delta to the uses of the participant at index.
func (r *VoucherRepository) IncParticipantUses(ctx context.Context, id primitive.ObjectID, index, delta int) error {
	field := fmt.Sprintf("participants.%d.uses", index)
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{field: delta},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
