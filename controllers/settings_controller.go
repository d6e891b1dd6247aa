package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/services"
)

// SettingsController serves the admin /settings routes.
type SettingsController struct {
	settings services.SettingsService
}

func NewSettingsController(settings services.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

func (sc *SettingsController) List(ctx *gin.Context) {
	settings, appErr := sc.settings.List(ctx.Request.Context())
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (sc *SettingsController) Create(ctx *gin.Context) {
	var req models.SettingsRequest
	if !bindJSON(ctx, &req, "Invalid settings data") {
		return
	}
	settings, appErr := sc.settings.Create(ctx.Request.Context(), &req)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"settings": settings})
}

func (sc *SettingsController) Update(ctx *gin.Context) {
	var req models.SettingsRequest
	if !bindJSON(ctx, &req, "Invalid settings data") {
		return
	}
	settings, appErr := sc.settings.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"settings": settings})
}
