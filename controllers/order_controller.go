package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/services"
)

// OrderController serves /orders.
type OrderController struct {
	orders services.OrderService
}

func NewOrderController(orders services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func (oc *OrderController) ListMine(ctx *gin.Context) {
	caller := requireUser(ctx)
	if caller == nil {
		return
	}
	orders, appErr := oc.orders.ListMine(ctx.Request.Context(), caller.ID)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (oc *OrderController) List(ctx *gin.Context) {
	limit, skip := parsePaginationParams(ctx, 10)
	result, appErr := oc.orders.List(ctx.Request.Context(), models.OrderListParams{
		Limit:  limit,
		Skip:   skip,
		Status: ctx.Query("status"),
	})
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": result.Orders, "total": result.Total})
}

func (oc *OrderController) UpdateStatus(ctx *gin.Context) {
	var req models.OrderStatusRequest
	if !bindJSON(ctx, &req, "Status or payment status is required") {
		return
	}
	order, appErr := oc.orders.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), &req)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order updated successfully", "order": order})
}
