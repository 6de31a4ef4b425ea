package router

import (
	"net/http"
	"staff-api/common"
	"staff-api/handler"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "staff-api/docs" // swagger docs registration
)

func NewRouter(authHandler *handler.AuthHandler, staffHandler *handler.StaffHandler, authMW *handler.AuthMiddleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Public auth endpoints.
	mux.Handle("POST /api/v1/auth/register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /api/v1/auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /api/v1/auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))

	// Everything below requires a valid, unrevoked access token.
	protected := func(h func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return authMW.Handle(handler.ErrorHandlingMiddleware(h))
	}

	mux.Handle("POST /api/v1/auth/logout", protected(authHandler.Logout))
	mux.Handle("POST /api/v1/auth/logout-all", protected(authHandler.LogoutAll))

	mux.Handle("POST /api/v1/staff", protected(staffHandler.CreateStaff))
	mux.Handle("GET /api/v1/staff", protected(staffHandler.ListStaff))
	mux.Handle("GET /api/v1/staff/{staffID}", protected(staffHandler.GetStaff))
	mux.Handle("PUT /api/v1/staff/{staffID}", protected(staffHandler.UpdateStaff))
	mux.Handle("DELETE /api/v1/staff/{staffID}", protected(staffHandler.DeleteStaff))

	return handler.RequestIDMiddleware(mux)
}
