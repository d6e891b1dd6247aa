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

type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{collection: db.Collection("settings")}
}

// Latest returns the most recently created settings document.
func (r *SettingsRepository) Latest(ctx context.Context) (*models.Settings, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var s models.Settings
	if err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&s); err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *SettingsRepository) List(ctx context.Context) ([]models.Settings, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	settings := []models.Settings{}
	if err := cursor.All(ctx, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SettingsRepository) Create(ctx context.Context, s *models.Settings) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	_, err := r.collection.InsertOne(ctx, s)
	return translate(err)
}

func (r *SettingsRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Settings, error) {
	var s models.Settings
	if err := findAndSet(ctx, r.collection, id, updates, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
