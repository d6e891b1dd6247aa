package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	productionEnv       = "production"
	developmentJWTKey   = "secret_key_Ecommerce"
	defaultSecretName   = "storefront/APP_SECRETS"
	localStorefrontHost = "http://localhost:3000"
)

// Config holds all environment variables for the storefront API.
type Config struct {
	Port        string `env:"PORT" envDefault:"5000"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"ecommerce"`
	RedisURL string `env:"REDIS_URL"`

	JWTSecret    string `env:"JWT_SECRET"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"false"`

	FrontendURL      string   `env:"FRONTEND_URL"`
	AllowedOrigins   []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	PasswordResetURL string   `env:"PASSWORD_RESET_URL" envDefault:"http://localhost:3000/user/forgot-password"`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	SMTPFrom string `env:"SMTP_FROM"`

	AWSRegion       string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpoint     string `env:"AWS_ENDPOINT"` // e.g. http://localstack:4566
	UseSecrets      bool   `env:"AWS_USE_SECRETS" envDefault:"false"`
	SecretName      string `env:"AWS_SECRET_NAME" envDefault:"storefront/APP_SECRETS"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
	EventsTopicArn  string `env:"EVENTS_SNS_TOPIC_ARN"`

	CloudWatchEnabled   bool   `env:"CLOUDWATCH_ENABLED" envDefault:"false"`
	CloudWatchNamespace string `env:"CLOUDWATCH_NAMESPACE" envDefault:"HijaabStorefront"`
	CloudWatchLogGroup  string `env:"CLOUDWATCH_LOG_GROUP"`

	ProductCacheTTL time.Duration `env:"PRODUCT_CACHE_TTL" envDefault:"5m"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	RateLimitRPS    float64       `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst  int           `env:"RATE_LIMIT_BURST" envDefault:"30"`
}

// SecretSource reads a JSON secret as a flat map. *awspkg.SecretsClient
// implements it.
type SecretSource interface {
	GetSecretMap(ctx context.Context, name string) (map[string]string, error)
}

// parseConfig reads the process environment, or environ when non-nil.
func parseConfig(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == productionEnv
}

// ApplySecrets overrides the JWT secret and SMTP credentials from the
// secret named by SecretName. Missing keys keep the env values.
func (c *Config) ApplySecrets(ctx context.Context, src SecretSource) error {
	name := c.SecretName
	if name == "" {
		name = defaultSecretName
	}
	values, err := src.GetSecretMap(ctx, name)
	if err != nil {
		return err
	}

	override := func(dst *string, key string) {
		if v := values[key]; v != "" {
			*dst = v
		}
	}
	override(&c.JWTSecret, "JWT_SECRET")
	override(&c.SMTPUser, "SMTP_USER")
	override(&c.SMTPPass, "SMTP_PASS")
	override(&c.SMTPHost, "SMTP_HOST")
	return nil
}

var errMissingJWTSecret = errors.New("JWT_SECRET is required in production")

// ResolveJWTSecret enforces a configured secret in production. Elsewhere an
// empty secret falls back to the development key; the bool reports that.
func (c *Config) ResolveJWTSecret() (bool, error) {
	if c.JWTSecret != "" {
		return false, nil
	}
	if c.IsProduction() {
		return false, errMissingJWTSecret
	}
	c.JWTSecret = developmentJWTKey
	return true, nil
}

// Origins lists the CORS allow-list.
func (c *Config) Origins() []string {
	origins := []string{localStorefrontHost}
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
