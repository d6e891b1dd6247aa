package services

import (
	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/shopspring/decimal"
)

// lineTotal is unitPrice * quantity.
func lineTotal(unitPrice float64, quantity int) float64 {
	return decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		InexactFloat64()
}

// recalculate refreshes every line total and the cart total.
func recalculate(cart *models.Cart) {
	total := decimal.Zero
	for i := range cart.Items {
		line := decimal.NewFromFloat(cart.Items[i].UnitPrice).Mul(decimal.NewFromInt(int64(cart.Items[i].Quantity)))
		cart.Items[i].TotalPrice = line.InexactFloat64()
		total = total.Add(line)
	}
	cart.TotalPrice = total.InexactFloat64()
}

// percentageOf returns price * rate / 100. Values are not rounded to cents.
func percentageOf(price, rate float64) float64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromFloat(rate)).
		Div(decimal.NewFromInt(100)).
		InexactFloat64()
}

// subtract returns a - b without float drift.
func subtract(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64()
}
