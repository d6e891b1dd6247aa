package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/services"
)

// VoucherController serves /voucher.
type VoucherController struct {
	vouchers services.VoucherService
}

func NewVoucherController(vouchers services.VoucherService) *VoucherController {
	return &VoucherController{vouchers: vouchers}
}

func (vc *VoucherController) Apply(ctx *gin.Context) {
	caller := requireUser(ctx)
	if caller == nil {
		return
	}
	var req models.ApplyVoucherRequest
	if !bindJSON(ctx, &req, "Voucher not found") {
		return
	}

	result, appErr := vc.vouchers.Apply(ctx.Request.Context(), caller.ID, req.VoucherCode)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message":    "Voucher applied successfully",
		"discount":   result.Discount,
		"totalPrice": result.TotalPrice,
	})
}

func (vc *VoucherController) Remove(ctx *gin.Context) {
	caller := requireUser(ctx)
	if caller == nil {
		return
	}
	if appErr := vc.vouchers.Remove(ctx.Request.Context(), caller.ID); appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Voucher removed successfully"})
}

func (vc *VoucherController) Create(ctx *gin.Context) {
	var req models.VoucherRequest
	if !bindJSON(ctx, &req, "Invalid voucher data") {
		return
	}
	voucher, appErr := vc.vouchers.Create(ctx.Request.Context(), &req)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Voucher created successfully", "voucher": voucher})
}

func (vc *VoucherController) List(ctx *gin.Context) {
	limit, skip := parsePaginationParams(ctx, 10)
	result, appErr := vc.vouchers.List(ctx.Request.Context(), limit, skip)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Vouchers fetched successfully",
		"vouchers": result.Vouchers,
		"total":    result.Total,
	})
}

func (vc *VoucherController) Get(ctx *gin.Context) {
	voucher, appErr := vc.vouchers.Get(ctx.Request.Context(), ctx.Param("id"))
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Voucher fetched successfully", "voucher": voucher})
}

func (vc *VoucherController) Update(ctx *gin.Context) {
	var req models.VoucherRequest
	if !bindJSON(ctx, &req, "Invalid voucher data") {
		return
	}
	voucher, appErr := vc.vouchers.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Voucher updated successfully", "voucher": voucher})
}

func (vc *VoucherController) Delete(ctx *gin.Context) {
	if appErr := vc.vouchers.Delete(ctx.Request.Context(), ctx.Param("id")); appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Voucher deleted successfully"})
}
