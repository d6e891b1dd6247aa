package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/services"
)

const idempotencyHeader = "Idempotency-Key"

// CartController serves /cart, including checkout.
type CartController struct {
	carts  services.CartService
	orders services.OrderService
}

func NewCartController(carts services.CartService, orders services.OrderService) *CartController {
	return &CartController{carts: carts, orders: orders}
}

func (cc *CartController) Get(ctx *gin.Context) {
	caller := requireUser(ctx)
	if caller == nil {
		return
	}
	cart, appErr := cc.carts.Get(ctx.Request.Context(), caller.ID)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Cart fetched successfully", "cart": cart})
}

func (cc *CartController) mutate(ctx *gin.Context, message string, op func(*models.CartItemRequest) (*models.Cart, bool)) {
	var req models.CartItemRequest
	if !bindJSON(ctx, &req, "Invalid cart data") {
		return
	}
	cart, ok := op(&req)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": message, "cart": cart})
}

func (cc *CartController) Add(ctx *gin.Context) {
	caller := requireUser(ctx)
	if caller == nil {
		return
	}
	cc.mutate(ctx, "Product added to cart successfully", func(req *models.CartItemRequest) (*models.Cart, bool) {
		cart, appErr := cc.carts.Add(ctx.Request.Context(), caller.ID, req)
		if appErr != nil {
			_ = ctx.Error(appErr)
			return nil, false
		}
		return cart, true
	})
}

func (cc *CartController) Update(ctx *gin.Context) {
	caller := requireUser(ctx)
	if caller == nil {
		return
	}
	cc.mutate(ctx, "Cart updated successfully", func(req *models.CartItemRequest) (*models.Cart, bool) {
		cart, appErr := cc.carts.Update(ctx.Request.Context(), caller.ID, req)
		if appErr != nil {
			_ = ctx.Error(appErr)
			return nil, false
		}
		return cart, true
	})
}

func (cc *CartController) Remove(ctx *gin.Context) {
	caller := requireUser(ctx)
	if caller == nil {
		return
	}
	cc.mutate(ctx, "Item removed from cart", func(req *models.CartItemRequest) (*models.Cart, bool) {
		cart, appErr := cc.carts.Remove(ctx.Request.Context(), caller.ID, req)
		if appErr != nil {
			_ = ctx.Error(appErr)
			return nil, false
		}
		return cart, true
	})
}

// Checkout places a cash order. Clients may send an Idempotency-Key header
// to make retries safe.
func (cc *CartController) Checkout(ctx *gin.Context) {
	caller := requireUser(ctx)
	if caller == nil {
		return
	}
	order, appErr := cc.orders.Checkout(ctx.Request.Context(), caller.ID, ctx.GetHeader(idempotencyHeader))
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}
