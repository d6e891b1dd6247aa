package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

// literalRegex matches s anywhere in the field, case-insensitively, with all
// regex metacharacters escaped.
func literalRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func sortDoc(s SortSpec) bson.D {
	order := 1
	if s.Desc {
		order = -1
	}
	return bson.D{{Key: s.Field, Value: order}}
}

// setWithTimestamp copies updates into a $set document and stamps updatedAt.
func setWithTimestamp(updates map[string]interface{}) bson.M {
	set := bson.M{}
	for k, v := range updates {
		set[k] = v
	}
	set["updatedAt"] = time.Now().UTC()
	return bson.M{"$set": set}
}

func findAndSet(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, updates map[string]interface{}, out interface{}) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, setWithTimestamp(updates), opts).Decode(out)
	return translate(err)
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) (bool, error) {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
