// file: app/test_app.go

package app

import (
	"database/sql"
	"net/http"
	"staff-api/handler"
	"staff-api/repository"
	"staff-api/router"
	"staff-api/service"

	"github.com/redis/go-redis/v9"
)

// TestApp wires the full stack over externally provided connections so
// integration tests can drive the real router.
type TestApp struct {
	DB     *sql.DB
	Redis  *redis.Client
	Router http.Handler
	Auth   *service.AuthService
}

func NewTestApp(db *sql.DB, redisClient *redis.Client) *TestApp {
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	blacklistRepo := repository.NewBlacklistRepository(db)
	staffRepo := repository.NewStaffRepository(db)

	authService := service.NewAuthService(userRepo, tokenRepo, blacklistRepo, authConfigFromApp())
	staffService := service.NewStaffService(staffRepo, redisClient)

	authHandler := handler.NewAuthHandler(authService)
	staffHandler := handler.NewStaffHandler(staffService)
	authMW := handler.NewAuthMiddleware(authService)

	return &TestApp{
		DB:     db,
		Redis:  redisClient,
		Router: router.NewRouter(authHandler, staffHandler, authMW),
		Auth:   authService,
	}
}
