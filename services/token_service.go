package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/golang-jwt/jwt/v4"
)

const (
	SessionTTL = 7 * 24 * time.Hour
	ResetTTL   = time.Hour
)

var ErrInvalidToken = errors.New("invalid or expired token")

// SessionClaims is the session cookie payload. User never carries the
// password hash because models.User omits it from JSON.
type SessionClaims struct {
	UserID string      `json:"id"`
	User   models.User `json:"user"`
	jwt.RegisteredClaims
}

// ResetClaims is the password-reset link payload.
type ResetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens with one shared secret.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

func (t *TokenService) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := t.now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (t *TokenService) IssueSession(user *models.User) (string, error) {
	claims := SessionClaims{
		UserID:           user.ID.Hex(),
		User:             *user,
		RegisteredClaims: t.registered(SessionTTL),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenService) ParseSession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := t.parse(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (t *TokenService) IssueReset(email string) (string, error) {
	claims := ResetClaims{Email: email, RegisteredClaims: t.registered(ResetTTL)}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// ParseReset returns the e-mail a reset token was issued for.
func (t *TokenService) ParseReset(tokenString string) (string, error) {
	claims := &ResetClaims{}
	if err := t.parse(tokenString, claims); err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}

func (t *TokenService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
