// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-banner-api/config"
	"go-banner-api/db"
	"go-banner-api/handler"
	"go-banner-api/logger"
	"go-banner-api/repository"
	"go-banner-api/router"
	"go-banner-api/service"

	"github.com/redis/go-redis/v9"
)

// buildRouter wires repositories, services, handlers and middleware into the
// HTTP router. Shared between Run and the integration-test harness.
func buildRouter(database *sql.DB, redisClient *redis.Client) (http.Handler, error) {
	userRepo := repository.NewUserRepository(database)
	bannerRepo := repository.NewBannerRepository(database)
	blacklistRepo := repository.NewBlacklistRepository(redisClient)

	uploadStore, err := service.NewUploadStore(
		config.AppConfig.Uploads.Dir,
		config.AppConfig.Uploads.PublicPath,
		config.AppConfig.Uploads.MaxSizeMB,
	)
	if err != nil {
		return nil, err
	}

	authService := service.NewAuthService(userRepo, blacklistRepo, config.AppConfig.JWT.SecretKey)
	userService := service.NewUserService(userRepo, authService)
	bannerService := service.NewBannerService(bannerRepo, uploadStore)

	userHandler := handler.NewUserHandler(authService, userService)
	bannerHandler := handler.NewBannerHandler(bannerService, uploadStore)
	authMW := handler.NewAuthMiddleware(authService)

	return router.NewRouter(userHandler, bannerHandler, authMW, uploadStore.Dir()), nil
}

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	r, err := buildRouter(database, redisClient)
	if err != nil {
		logger.Log.Fatalf("Error wiring application: %v", err)
	}

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// TestApp bundles the wired router with its backing stores for integration
// tests. Callers own the lifecycle of the passed-in connections.
type TestApp struct {
	DB     *sql.DB
	Redis  *redis.Client
	Router http.Handler
}

// NewTestApp wires the full application against already-connected stores.
// Configuration must be loaded before calling.
func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	r, err := buildRouter(database, redisClient)
	if err != nil {
		logger.Log.Fatalf("Error wiring test application: %v", err)
	}
	return &TestApp{
		DB:     database,
		Redis:  redisClient,
		Router: r,
	}
}
