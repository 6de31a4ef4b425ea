// File: app/app.go
package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"staff-api/config"
	"staff-api/db"
	"staff-api/handler"
	"staff-api/logger"
	"staff-api/repository"
	"staff-api/router"
	"staff-api/service"
	"syscall"
	"time"
)

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

	// --- Wiring All Layers Together ---

	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	blacklistRepo := repository.NewBlacklistRepository(database)
	staffRepo := repository.NewStaffRepository(database)

	authService := service.NewAuthService(userRepo, tokenRepo, blacklistRepo, authConfigFromApp())
	staffService := service.NewStaffService(staffRepo, redisClient)

	authHandler := handler.NewAuthHandler(authService)
	staffHandler := handler.NewStaffHandler(staffService)
	authMW := handler.NewAuthMiddleware(authService)

	r := router.NewRouter(authHandler, staffHandler, authMW)

	// --- Background Maintenance ---
	purgeInterval := time.Duration(config.AppConfig.Maintenance.PurgeIntervalMinutes) * time.Minute
	if purgeInterval <= 0 {
		purgeInterval = time.Hour
	}
	janitor := service.NewJanitor(authService, purgeInterval)
	janitorStop := make(chan struct{})
	go janitor.Run(janitorStop)

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
	close(janitorStop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// authConfigFromApp maps the loaded configuration into the explicit auth
// construction parameters; no service reads the signing keys ambiently.
func authConfigFromApp() service.AuthConfig {
	cfg := config.AppConfig.JWT
	return service.AuthConfig{
		SecretKeys:      cfg.SecretKeys,
		AccessTokenTTL:  time.Duration(cfg.AccessTokenTTLMinutes) * time.Minute,
		RefreshTokenTTL: time.Duration(cfg.RefreshTokenTTLDays) * 24 * time.Hour,
	}
}
