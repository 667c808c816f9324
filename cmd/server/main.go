package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ddrozdov/storefront-backend/config"
	"github.com/ddrozdov/storefront-backend/internal/app/controller"
	"github.com/ddrozdov/storefront-backend/internal/app/repository"
	"github.com/ddrozdov/storefront-backend/internal/app/service"
	"github.com/ddrozdov/storefront-backend/internal/db"
	"github.com/ddrozdov/storefront-backend/internal/middleware"
	"github.com/ddrozdov/storefront-backend/internal/notification"
	"github.com/ddrozdov/storefront-backend/internal/router"
	"github.com/ddrozdov/storefront-backend/internal/storage"
	"github.com/ddrozdov/storefront-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting storefront backend", map[string]interface{}{
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

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Login notifications go to Kafka when brokers are configured,
	// otherwise to the log
	var notifier notification.Notifier
	if len(cfg.Kafka.Brokers) > 0 {
		notifier = notification.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info("Using Kafka notifier", map[string]interface{}{
			"brokers": cfg.Kafka.Brokers,
			"topic":   cfg.Kafka.Topic,
		})
	} else {
		notifier = notification.NewLogNotifier()
		logger.Info("Kafka brokers not configured, using log notifier")
	}
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Error("Failed to close notifier", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		notifier,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo, cartRepo)
	cartService := service.NewCartService(cartRepo, productRepo, userRepo)

	// Initialize storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
