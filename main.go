package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/cache"
	apperrors "github.com/HamzaHashone/ecommerce-hijaab-collection/common/errors"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/common/logger"
	commonmw "github.com/HamzaHashone/ecommerce-hijaab-collection/common/middleware"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/controllers"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/database"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/middleware"
	awspkg "github.com/HamzaHashone/ecommerce-hijaab-collection/pkg/aws"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/realtime"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/repository"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/routes"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/sender"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/services"
)

const serviceName = "storefront-api"

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := parseConfig(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// --- 1. AWS and logging ---

	awsCfg, err := awspkg.LoadAWSConfig(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "aws: %v\n", err)
		os.Exit(1)
	}

	var cwWriter io.Writer
	var cwLogs *awspkg.CloudWatchLogsClient
	if cfg.CloudWatchEnabled && cfg.CloudWatchLogGroup != "" {
		cwLogs, err = awspkg.NewCloudWatchLogsClient(ctx, awsCfg, cfg.CloudWatchLogGroup, serviceName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cloudwatch logs disabled: %v\n", err)
			cwLogs = nil
		} else {
			cwWriter = cwLogs
		}
	}
	log := logger.InitializeWithWriter(cfg.Environment, cwWriter)
	defer func() {
		_ = log.Sync()
		if cwLogs != nil {
			_ = cwLogs.Close()
		}
	}()

	if cfg.UseSecrets {
		if err := cfg.ApplySecrets(ctx, awspkg.NewSecretsClient(awsCfg)); err != nil {
			log.Warn("Secrets Manager unavailable, using environment values", zap.Error(err))
		}
	}
	fallback, err := cfg.ResolveJWTSecret()
	if err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}
	if fallback {
		log.Warn("JWT_SECRET not set; using the development key")
	}

	// --- 2. Storage ---

	mongoDB, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB, log)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := repository.EnsureIndexes(ctx, mongoDB.DB); err != nil {
		log.Warn("Failed to ensure indexes", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		// Caching is optional; run without it.
		log.Warn("Redis unavailable; cache and idempotency disabled", zap.Error(err))
		redisClient = nil
	}

	userRepo := repository.NewUserRepository(mongoDB.DB)
	productRepo := repository.NewProductRepository(mongoDB.DB)
	cartRepo := repository.NewCartRepository(mongoDB.DB)
	voucherRepo := repository.NewVoucherRepository(mongoDB.DB)
	orderRepo := repository.NewOrderRepository(mongoDB.DB)
	settingsRepo := repository.NewSettingsRepository(mongoDB.DB)

	productCache := cache.NewProductCache(redisClient, cfg.ProductCacheTTL, log)
	idempotency := cache.NewIdempotencyStore(redisClient, cache.DefaultIdempotency)

	// --- 3. Collaborators ---

	metricsClient := awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, cfg.CloudWatchEnabled)
	uploader := awspkg.NewS3Uploader(awsCfg, cfg.S3Bucket, cfg.S3PublicBaseURL)
	if cfg.S3Bucket == "" {
		log.Warn("S3_BUCKET not set; product image uploads will fail")
	}

	var events awspkg.SNSPublisher
	if cfg.EventsTopicArn != "" {
		events = awspkg.NewSNSClient(awsCfg)
	}

	var emailSender sender.EmailSender
	if cfg.SMTPHost != "" {
		smtpSender, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		if err != nil {
			log.Fatal("Invalid SMTP configuration", zap.Error(err))
		}
		emailSender = smtpSender
	} else {
		log.Info("SMTP_HOST not set; e-mails are logged instead of sent")
		emailSender = sender.NewLogSender(log)
	}
	mailer, err := sender.NewTemplateMailer(emailSender)
	if err != nil {
		log.Fatal("Failed to load e-mail templates", zap.Error(err))
	}

	// --- 4. Services and controllers ---

	tokens := services.NewTokenService(cfg.JWTSecret)
	settingsService := services.NewSettingsService(settingsRepo, productCache, log)
	authService := services.NewAuthService(userRepo, tokens, mailer, cfg.PasswordResetURL, log)
	userService := services.NewUserService(userRepo, settingsService, mailer, log)
	productService := services.NewProductService(productRepo, settingsService, productCache, uploader, metricsClient, log)
	cartService := services.NewCartService(cartRepo, productRepo, metricsClient, log)
	voucherService := services.NewVoucherService(voucherRepo, cartRepo, productRepo, events, cfg.EventsTopicArn, metricsClient, log)
	orderService := services.NewOrderService(orderRepo, cartRepo, userRepo, idempotency, events, cfg.EventsTopicArn, metricsClient, log)

	registry := realtime.NewRegistry()

	handlers := routes.Controllers{
		Auth:     controllers.NewAuthController(authService, cfg.CookieSecure),
		User:     controllers.NewUserController(userService),
		Product:  controllers.NewProductController(productService),
		Cart:     controllers.NewCartController(cartService, orderService),
		Voucher:  controllers.NewVoucherController(voucherService),
		Order:    controllers.NewOrderController(orderService),
		Settings: controllers.NewSettingsController(settingsService),
		Health:   controllers.NewHealthController(cfg.Environment, mongoDB.Online, registry.Count),
		Realtime: realtime.NewHandler(registry, log),
	}

	// --- 5. HTTP server and middleware ---

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := commonmw.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, 10*time.Minute)
	stopSweep := make(chan struct{})
	go limiter.Run(stopSweep)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(commonmw.RequestLogger(log))
	r.Use(commonmw.SecurityHeaders())
	r.Use(commonmw.CORS(cfg.Origins()))
	r.Use(commonmw.RateLimitMiddleware(limiter))
	r.Use(commonmw.RequestTimeout(cfg.RequestTimeout))
	r.Use(commonmw.MetricsMiddleware(metricsClient, serviceName))
	r.Use(apperrors.ErrorMiddleware())

	routes.RegisterRoutes(r, handlers,
		middleware.Authenticate(tokens, userRepo, cfg.CookieSecure),
		middleware.AdminOnly(),
		log,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Storefront API starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- 6. Graceful shutdown ---

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down storefront API...")
	close(stopSweep)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := mongoDB.Close(); err != nil {
		log.Error("Failed to close MongoDB", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Storefront API stopped gracefully")
}
