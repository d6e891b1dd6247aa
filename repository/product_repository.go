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

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection("products"),
	}
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func productFilter(q ProductQuery) bson.M {
	filter := bson.M{}
	if q.Title != "" {
		filter["title"] = literalRegex(q.Title)
	}
	if q.FeaturedOnly {
		filter["featured"] = true
	}
	if q.BelowStock != nil {
		filter["quantity"] = bson.M{"$lt": *q.BelowStock}
	}
	if q.Material != "" {
		filter["material"] = literalRegex(q.Material)
	}
	return filter
}

// List returns one page plus the total match count. limit 0 is unbounded.
func (r *ProductRepository) List(ctx context.Context, q ProductQuery, sort SortSpec, limit, skip int64) ([]models.Product, int64, error) {
	filter := productFilter(q)
	findOptions := options.Find().SetSort(sortDoc(sort)).SetSkip(skip)
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err = cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	product.CreatedAt, product.UpdatedAt = now, now
	_, err := r.collection.InsertOne(ctx, product)
	return translate(err)
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error) {
	var product models.Product
	if err := findAndSet(ctx, r.collection, id, updates, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.collection, id)
}
