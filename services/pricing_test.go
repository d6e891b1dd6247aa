package services

import (
	"testing"
	"time"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/stretchr/testify/assert"
)

func TestRecalculate(t *testing.T) {
	cart := &models.Cart{Items: []models.CartItem{
		{UnitPrice: 0.1, Quantity: 3},
		{UnitPrice: 19.99, Quantity: 2},
	}}
	recalculate(cart)

	assert.Equal(t, 0.3, cart.Items[0].TotalPrice)
	assert.Equal(t, 39.98, cart.Items[1].TotalPrice)
	assert.Equal(t, 40.28, cart.TotalPrice)
}

func TestPercentageOf(t *testing.T) {
	assert.Equal(t, 7.5, percentageOf(50, 15))
	assert.Equal(t, 0.0, percentageOf(0, 50))
	assert.Equal(t, 80.0, subtract(100, 20))

	// Sub-cent fractions are kept.
	assert.Equal(t, 14.9985, percentageOf(99.99, 15))
	assert.Equal(t, 85.0015, subtract(100, 14.9985))
	assert.Equal(t, 0.3333, lineTotal(0.1111, 3))
}

func TestKeptImages(t *testing.T) {
	stored := []string{"a", "b", "c"}

	assert.Equal(t, []string{"a", "c"}, keptImages(stored, `["c","a","zzz"]`))
	assert.Equal(t, []string{"b"}, keptImages(stored, "b"))
	assert.Equal(t, []string{}, keptImages(stored, `[]`))
}

func TestStartOfLastMonth(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC), startOfLastMonth(now))
}
