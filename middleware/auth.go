package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/repository"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/services"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "Ecommerce"

	userContextKey = "authUser"
)

// AuthUser is the caller identity attached by Authenticate.
type AuthUser struct {
	ID        primitive.ObjectID
	Email     string
	FirstName string
	LastName  string
	Role      string
	Status    string
}

func (u *AuthUser) IsAdmin() bool {
	return u.Role == models.RoleAdmin
}

func unauthorized(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// Authenticate verifies the session cookie and re-reads the account so a
// deactivated user is locked out before the token expires.
func Authenticate(tokens *services.TokenService, users repository.UserRepo, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			unauthorized(c, http.StatusUnauthorized, "Unauthorized..")
			return
		}

		claims, err := tokens.ParseSession(token)
		if err != nil {
			unauthorized(c, http.StatusUnauthorized, "Invalid or expired token..")
			return
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			unauthorized(c, http.StatusUnauthorized, "Invalid or expired token..")
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			unauthorized(c, http.StatusNotFound, "User not found..")
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error", "error": err.Error()})
			return
		}

		if !user.IsActive() || claims.User.Status != models.StatusActive {
			ClearSessionCookie(c, secureCookie)
			unauthorized(c, http.StatusUnauthorized, "Unauthorized..")
			return
		}

		SetCurrentUser(c, &AuthUser{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
			Status:    user.Status,
		})
		c.Next()
	}
}

// SetCurrentUser attaches u to the request context.
func SetCurrentUser(c *gin.Context, u *AuthUser) {
	c.Set(userContextKey, u)
}

// CurrentUser returns the identity set by Authenticate, or nil.
func CurrentUser(c *gin.Context) *AuthUser {
	if v, ok := c.Get(userContextKey); ok {
		if u, ok := v.(*AuthUser); ok {
			return u
		}
	}
	return nil
}

// AdminOnly must run after Authenticate.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			unauthorized(c, http.StatusUnauthorized, "Unauthorized: only admin can use this..")
			return
		}
		c.Next()
	}
}

func SetSessionCookie(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(services.SessionTTL.Seconds()), "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}
