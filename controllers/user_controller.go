package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/services"
)

// UserController serves the admin /users routes.
type UserController struct {
	users services.UserService
}

func NewUserController(users services.UserService) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) List(ctx *gin.Context) {
	limit, skip := parsePaginationParams(ctx, 10)
	result, appErr := uc.users.List(ctx.Request.Context(), models.UserListParams{
		Limit:  limit,
		Skip:   skip,
		Name:   ctx.Query("name"),
		Filter: ctx.Query("filter"),
	})
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "successfully fetch users", "users": result.Users, "total": result.Total})
}

func (uc *UserController) Get(ctx *gin.Context) {
	user, appErr := uc.users.Get(ctx.Request.Context(), ctx.Param("id"))
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func (uc *UserController) Delete(ctx *gin.Context) {
	if appErr := uc.users.Delete(ctx.Request.Context(), ctx.Param("id")); appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully!"})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (uc *UserController) UpdateStatus(ctx *gin.Context) {
	var req statusRequest
	if !bindJSON(ctx, &req, "Invalid status") {
		return
	}
	user, appErr := uc.users.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), req.Status)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "User status updated successfully!", "user": user})
}
