package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "ecommerce", cfg.MongoDB)
	assert.Equal(t, "587", cfg.SMTPPort)
	assert.Equal(t, "http://localhost:3000/user/forgot-password", cfg.PasswordResetURL)
	assert.Equal(t, 5*time.Minute, cfg.ProductCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.CookieSecure)
	assert.Empty(t, cfg.RedisURL)
}

func TestParseConfig_Overrides(t *testing.T) {
	cfg, err := parseConfig(map[string]string{
		"PORT":            "8080",
		"COOKIE_SECURE":   "true",
		"ALLOWED_ORIGINS": "https://a.example, https://b.example",
		"FRONTEND_URL":    "https://shop.example",
		"REQUEST_TIMEOUT": "5s",
	})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://shop.example", "https://a.example", "https://b.example"}, cfg.Origins())
}

func TestParseConfig_BadDuration(t *testing.T) {
	_, err := parseConfig(map[string]string{"PRODUCT_CACHE_TTL": "soon"})
	assert.Error(t, err)
}

func TestResolveJWTSecret(t *testing.T) {
	dev := &Config{Environment: "development"}
	fallback, err := dev.ResolveJWTSecret()
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, developmentJWTKey, dev.JWTSecret)

	prod := &Config{Environment: "production"}
	_, err = prod.ResolveJWTSecret()
	assert.ErrorIs(t, err, errMissingJWTSecret)

	set := &Config{Environment: "production", JWTSecret: "s3cret"}
	fallback, err = set.ResolveJWTSecret()
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, "s3cret", set.JWTSecret)
}

type staticSecrets struct {
	name   string
	values map[string]string
	err    error
}

func (s *staticSecrets) GetSecretMap(_ context.Context, name string) (map[string]string, error) {
	s.name = name
	return s.values, s.err
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{JWTSecret: "env", SMTPUser: "env-user", SMTPPass: "env-pass"}
	src := &staticSecrets{values: map[string]string{"JWT_SECRET": "vault", "SMTP_PASS": "vault-pass"}}

	require.NoError(t, cfg.ApplySecrets(context.Background(), src))
	assert.Equal(t, defaultSecretName, src.name)
	assert.Equal(t, "vault", cfg.JWTSecret)
	assert.Equal(t, "env-user", cfg.SMTPUser)
	assert.Equal(t, "vault-pass", cfg.SMTPPass)

	src.err = assert.AnError
	assert.Error(t, cfg.ApplySecrets(context.Background(), src))
}
