package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	config "github.com/AnLuoRidge/Lovely-AIP/configs"
	"github.com/AnLuoRidge/Lovely-AIP/internal/application/services"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/db"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/docstore/memory"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/docstore/mongo"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/docstore/postgres"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/email"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/health"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/httpserver"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/querycache"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/redis"
	"github.com/AnLuoRidge/Lovely-AIP/internal/infrastructure/repositories"
)

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}
	return logger
}

// openDocStore connects the document backend selected by cfg.Driver.
func openDocStore(ctx context.Context, cfg config.DocStoreConfig, database *db.Database, logger *logrus.Logger) (ports.DocumentBackend, error) {
	switch cfg.Driver {
	case config.DocStoreMongo:
		store, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.ConnectTimeout, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DocStoreMemory:
		logger.Warn("Using the in-memory document store; catalog data is lost on restart")
		return memory.New(), nil
	default:
		return postgres.New(database, logger), nil
	}
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := newLogger(cfg.Log)
	logger.Info("Starting bookstore API...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()
	logger.Info("Connected to database successfully")

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(); err != nil {
			logger.Fatal("Failed to run migrations:", err)
		}
	}

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis successfully")

	ctx := context.Background()
	backend, err := openDocStore(ctx, cfg.DocStore, database, logger)
	if err != nil {
		logger.Fatal("Failed to open document store:", err)
	}
	logger.WithField("driver", backend.Name()).Info("Document store ready")

	// Catalog reads go through the query cache; writes go to the backend
	// and invalidate the affected tags.
	var reader ports.DocumentStore = backend
	var invalidator ports.CacheInvalidator
	if cfg.Cache.Enabled {
		cacheStore := redis.NewQueryCacheStore(redisClient, cfg.Cache.Namespace, cfg.Cache.OpTimeout, logger)
		cached := querycache.NewStore(backend, cacheStore, redis.NewTagIndex(cacheStore), cfg.Cache.TTL, logger)
		reader, invalidator = cached, cached
		logger.WithFields(logrus.Fields{"namespace": cfg.Cache.Namespace, "ttl": cfg.Cache.TTL.String()}).Info("Query cache enabled")
	} else {
		logger.Warn("Query cache disabled")
	}

	emailService, err := email.NewEmailService(&email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
		CompanyName:    cfg.Email.CompanyName,
		BaseURL:        cfg.Email.BaseURL,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service:", err)
	}

	userRepo := repositories.NewUserRepository(database, logger)
	userService := services.NewUserService(userRepo, emailService, logger)
	authService := services.NewAuthService(userRepo, &cfg.JWT, logger)

	categoryService := services.NewCategoryService(reader, backend, invalidator, logger)
	bookService := services.NewBookService(reader, backend, invalidator, logger)
	bookListService := services.NewBookListService(reader, backend, invalidator, logger)
	feedService := services.NewFeedService(bookListService, services.FeedConfig{
		Title:       cfg.Feed.Title,
		Description: cfg.Feed.Description,
		Author:      cfg.Feed.Author,
		Size:        int64(cfg.Feed.Size),
	}, logger)

	rateLimiterService := services.NewRateLimiterService(
		repositories.NewRateLimitRedisRepository(redisClient),
		&services.RateLimiterConfig{
			DefaultRequestsPerMinute: cfg.RateLimit.DefaultRequestsPerMinute,
			BurstMultiplier:          cfg.RateLimit.BurstMultiplier,
			Window:                   cfg.RateLimit.Window,
			KeyPrefix:                cfg.RateLimit.KeyPrefix,
		},
		logger,
	)

	healthCheckers := []ports.HealthChecker{
		health.NewDBHealthChecker(database),
		health.NewRedisHealthChecker(redisClient),
	}
	if backend.Name() != "postgres" {
		healthCheckers = append(healthCheckers, health.NewDocStoreHealthChecker(backend))
	}

	server := httpserver.NewServer(&httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}, logger, httpserver.ServerDeps{
		CategoryService:    categoryService,
		BookService:        bookService,
		BookListService:    bookListService,
		FeedService:        feedService,
		UserService:        userService,
		AuthService:        authService,
		RateLimiterService: rateLimiterService,
		CacheInvalidator:   invalidator,
		HealthCheckers:     healthCheckers,
	})

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Info("HTTP server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	if err := backend.Close(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Failed to close document store")
	}

	logger.Info("Server exited")
}
