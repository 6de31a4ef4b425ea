package handler

import (
	"context"
	"errors"
	"net/http"
	"staff-api/common"
	"staff-api/service"
	"strings"
)

type contextKey string

const (
	UserIDKey      contextKey = "userID"
	UsernameKey    contextKey = "username"
	AccessTokenKey contextKey = "accessToken"
	ClaimsKey      contextKey = "claims"
)

// AuthMiddleware is the per-request gate. It carries its dependencies
// explicitly so the verification keys are injected at construction rather
// than read from ambient config.
type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Handle validates the bearer token (signature, expiry, blacklist, in that
// order) and attaches the authenticated identity to the request context.
func (m *AuthMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			appErr := common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil)
			appErr.Send(w)
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
			appErr := common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil)
			appErr.Send(w)
			return
		}

		tokenString := headerParts[1]
		claims, err := m.auth.VerifyAccessToken(tokenString)
		if err != nil {
			var appErr *common.AppError
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				appErr = common.NewAppError(http.StatusUnauthorized, "Token expired", nil)
			case errors.Is(err, service.ErrTokenRevoked):
				appErr = common.NewAppError(http.StatusUnauthorized, "Token has been revoked", nil)
			case errors.Is(err, service.ErrStorageUnavailable):
				appErr = common.NewAppError(http.StatusServiceUnavailable, "Temporarily unable to validate token", err)
			default:
				appErr = common.NewAppError(http.StatusUnauthorized, "Invalid token", nil)
			}
			appErr.Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UsernameKey, claims.Subject)
		ctx = context.WithValue(ctx, AccessTokenKey, tokenString)
		ctx = context.WithValue(ctx, ClaimsKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
