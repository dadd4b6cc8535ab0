package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zhwaweb/zhwaweb-admin/config"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/controller"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/repository"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/service"
	"github.com/zhwaweb/zhwaweb-admin/internal/authz"
	"github.com/zhwaweb/zhwaweb-admin/internal/db"
	"github.com/zhwaweb/zhwaweb-admin/internal/middleware"
	"github.com/zhwaweb/zhwaweb-admin/internal/router"
	"github.com/zhwaweb/zhwaweb-admin/internal/scheduler"
	"github.com/zhwaweb/zhwaweb-admin/internal/storage"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
	redispkg "github.com/zhwaweb/zhwaweb-admin/pkg/redis"
	"github.com/zhwaweb/zhwaweb-admin/pkg/util"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting Zhwaweb Admin API", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	tokens, err := util.NewTokenService(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.AccessTokenExpiry)
	if err != nil {
		logger.Fatal("Failed to configure token service", err)
	}

	// Optional server-side revocation
	var revoker service.TokenRevoker
	if cfg.Redis.Enabled {
		client, err := redispkg.Connect(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", err)
		}
		defer client.Close()
		revoker = redispkg.NewRevocationList(client)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	offerRepo := repository.NewOfferRepository(db.GetDB())
	subscriptionRepo := repository.NewSubscriptionRepository(db.GetDB())

	imageStorage, err := newImageStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize image storage", err)
	}

	// Initialize services
	engine, err := authz.NewEngine()
	if err != nil {
		logger.Fatal("Failed to initialize authorization engine", err)
	}
	identityService := service.NewIdentityService(userRepo, tokens, revoker)
	authService := service.NewAuthService(userRepo, tokens, revoker, service.AdminBootstrap{
		Username:        cfg.Admin.Username,
		Password:        cfg.Admin.Password,
		AllowPhoneLogin: cfg.Admin.AllowPhoneLogin,
	})
	storeService := service.NewStoreService(storeRepo, engine)
	offerService := service.NewOfferService(offerRepo, storeRepo, engine)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, engine)
	dashboardService := service.NewDashboardService(storeRepo, offerRepo, engine)
	uploadService := service.NewUploadService(imageStorage, cfg.Upload.MaxFileSize, cfg.Upload.AllowedImageTypes)

	if cfg.Admin.SeedOnStart {
		if _, err := authService.SeedAdmin(); err != nil && !errors.Is(err, service.ErrAdminNotConfigured) {
			logger.Fatal("Failed to seed admin user", err)
		}
	}

	// Initialize controllers
	presenter := controller.NewPresenter(cfg.Upload.Backend == "local")
	authController := controller.NewAuthController(authService, presenter)
	storeController := controller.NewStoreController(storeService, presenter)
	offerController := controller.NewOfferController(offerService, presenter)
	subscriptionController := controller.NewSubscriptionController(subscriptionService, presenter)
	dashboardController := controller.NewDashboardController(dashboardService, presenter)
	uploadController := controller.NewUploadController(uploadService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(identityService)
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst)
	metrics := middleware.NewMetrics()

	r := router.NewRouter(
		authController,
		storeController,
		offerController,
		subscriptionController,
		dashboardController,
		uploadController,
		authMiddleware,
		loginLimiter,
		metrics,
		cfg,
	)

	// Start background jobs
	var expiry *scheduler.OfferExpiryScheduler
	if cfg.Scheduler.OfferExpiryEnabled {
		expiry = scheduler.NewOfferExpiryScheduler(offerService, cfg.Scheduler.OfferExpirySpec)
		if err := expiry.Start(); err != nil {
			logger.Fatal("Failed to start offer expiry scheduler", err)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	if expiry != nil {
		expiry.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}

func newImageStorage(cfg *config.Config) (storage.ImageStorage, error) {
	switch cfg.Upload.Backend {
	case "s3":
		return storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		), nil
	default:
		local, err := storage.NewLocalStorage(cfg.Upload.Dir)
		if err != nil {
			return nil, err
		}
		return local, nil
	}
}
