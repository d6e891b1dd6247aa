package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/HamzaHashone/ecommerce-hijaab-collection/common/errors"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/middleware"
)

const maxPageLimit = 100

// parsePaginationParams reads limit and skip. Missing or malformed values
// fall back to defLimit and 0; limit is capped at maxPageLimit.
func parsePaginationParams(ctx *gin.Context, defLimit int64) (int64, int64) {
	limit, skip := defLimit, int64(0)
	if l, err := strconv.ParseInt(ctx.Query("limit"), 10, 64); err == nil && l >= 0 {
		limit = l
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
	}
	if s, err := strconv.ParseInt(ctx.Query("skip"), 10, 64); err == nil && s > 0 {
		skip = s
	}
	return limit, skip
}

// requireUser returns the authenticated caller or records a 401.
func requireUser(ctx *gin.Context) *middleware.AuthUser {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		_ = ctx.Error(apperrors.Unauthorized("Unauthorized.."))
	}
	return user
}

// bindJSON decodes the body and records a 400 with message on failure.
func bindJSON(ctx *gin.Context, dest interface{}, message string) bool {
	if err := ctx.ShouldBindJSON(dest); err != nil {
		_ = ctx.Error(apperrors.New(http.StatusBadRequest, message, err))
		return false
	}
	return true
}
