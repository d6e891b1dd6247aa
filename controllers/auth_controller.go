package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/middleware"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/services"
)

// AuthController serves /auth.
type AuthController struct {
	auth         services.AuthService
	secureCookie bool
}

func NewAuthController(auth services.AuthService, secureCookie bool) *AuthController {
	return &AuthController{auth: auth, secureCookie: secureCookie}
}

func (ac *AuthController) Login(ctx *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(ctx, &req, "Invalid request body") {
		return
	}

	user, token, appErr := ac.auth.Login(ctx.Request.Context(), &req)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}

	middleware.SetSessionCookie(ctx, token, ac.secureCookie)
	ctx.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": user})
}

func (ac *AuthController) Register(ctx *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(ctx, &req, "Invalid request body") {
		return
	}

	user, appErr := ac.auth.Register(ctx.Request.Context(), &req)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

func (ac *AuthController) Logout(ctx *gin.Context) {
	middleware.ClearSessionCookie(ctx, ac.secureCookie)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logout successful", "success": true})
}

func (ac *AuthController) MyProfile(ctx *gin.Context) {
	caller := requireUser(ctx)
	if caller == nil {
		return
	}
	user, appErr := ac.auth.Profile(ctx.Request.Context(), caller.ID)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func (ac *AuthController) UpdateProfile(ctx *gin.Context) {
	caller := requireUser(ctx)
	if caller == nil {
		return
	}
	var req models.UpdateProfileRequest
	if !bindJSON(ctx, &req, "Invalid request body") {
		return
	}

	user, appErr := ac.auth.UpdateProfile(ctx.Request.Context(), caller.ID, &req)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

func (ac *AuthController) AddAddress(ctx *gin.Context) {
	caller := requireUser(ctx)
	if caller == nil {
		return
	}
	var req models.AddressRequest
	if !bindJSON(ctx, &req, "Invalid request body") {
		return
	}

	address, user, appErr := ac.auth.AddAddress(ctx.Request.Context(), caller.ID, &req)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Address added successfully", "address": address, "user": user})
}

func (ac *AuthController) UpdateAddress(ctx *gin.Context) {
	caller := requireUser(ctx)
	if caller == nil {
		return
	}
	var req models.AddressRequest
	if !bindJSON(ctx, &req, "Invalid request body") {
		return
	}

	user, appErr := ac.auth.UpdateAddress(ctx.Request.Context(), caller.ID, ctx.Param("id"), &req)
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Address updated successfully", "user": user})
}

func (ac *AuthController) DeleteAddress(ctx *gin.Context) {
	caller := requireUser(ctx)
	if caller == nil {
		return
	}
	user, appErr := ac.auth.DeleteAddress(ctx.Request.Context(), caller.ID, ctx.Param("id"))
	if appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Address deleted successfully", "user": user})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (ac *AuthController) ForgotPassword(ctx *gin.Context) {
	var req forgotPasswordRequest
	if !bindJSON(ctx, &req, "Email is required") {
		return
	}
	if appErr := ac.auth.ForgotPassword(ctx.Request.Context(), req.Email); appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Email Send On Your Email " + req.Email, "success": true})
}

type createPasswordRequest struct {
	Password string `json:"password"`
}

// CreatePassword consumes the reset token carried in the path.
func (ac *AuthController) CreatePassword(ctx *gin.Context) {
	var req createPasswordRequest
	if !bindJSON(ctx, &req, "Password is required") {
		return
	}
	if appErr := ac.auth.CreatePassword(ctx.Request.Context(), ctx.Param("id"), req.Password); appErr != nil {
		_ = ctx.Error(appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Successfully created new password"})
}
