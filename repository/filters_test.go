package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserFilter(t *testing.T) {
	t.Run("empty query excludes nothing", func(t *testing.T) {
		assert.Empty(t, userFilter(UserQuery{}))
	})

	t.Run("name searches three fields literally", func(t *testing.T) {
		f := userFilter(UserQuery{Name: "a.b", ExcludeRole: "admin"})
		assert.Equal(t, bson.M{"$ne": "admin"}, f["role"])

		or, ok := f["$or"].(bson.A)
		assert.True(t, ok)
		assert.Len(t, or, 3)
		assert.Equal(t, bson.M{"firstName": primitive.Regex{Pattern: `a\.b`, Options: "i"}}, or[0])
	})

	t.Run("high value and recent filters", func(t *testing.T) {
		spent := 1000.0
		since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		f := userFilter(UserQuery{MinSpent: &spent, CreatedAfter: &since, Status: "active"})
		assert.Equal(t, bson.M{"$gt": 1000.0}, f["totalSpent"])
		assert.Equal(t, bson.M{"$gte": since}, f["createdAt"])
		assert.Equal(t, "active", f["status"])
	})
}

func TestProductFilter(t *testing.T) {
	low := 10
	f := productFilter(ProductQuery{Title: "Silk (new)", FeaturedOnly: true, BelowStock: &low, Material: "Premium-Silk"})

	assert.Equal(t, primitive.Regex{Pattern: `Silk \(new\)`, Options: "i"}, f["title"])
	assert.Equal(t, true, f["featured"])
	assert.Equal(t, bson.M{"$lt": 10}, f["quantity"])
	assert.Equal(t, primitive.Regex{Pattern: "Premium-Silk", Options: "i"}, f["material"])
}

func TestSortDoc(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, sortDoc(SortSpec{Field: "price"}))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, sortDoc(SortSpec{Field: "createdAt", Desc: true}))
}
