package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"staff-api/common"
	"staff-api/model"
	"staff-api/service"
)

// AuthHandler holds dependencies for authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register godoc
// @Summary      Register a new user
// @Description  Create a new user account with username and password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "Registration payload"
// @Success      201  {object}  model.User
// @Failure      400  {object}  common.AppError "Invalid payload"
// @Failure      409  {object}  common.AppError "Username already exists"
// @Failure      500  {object}  common.AppError "Internal server error"
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUsername) {
			return common.NewAppError(http.StatusConflict, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not create user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
	return nil
}

// Login godoc
// @Summary      Login and get a token pair
// @Description  Authenticate with username and password to receive a short-lived access token and a rotating refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Login payload"
// @Success      200  {object}  service.TokenPair
// @Failure      400  {object}  common.AppError "Invalid payload"
// @Failure      401  {object}  common.AppError "Incorrect username or password"
// @Failure      503  {object}  common.AppError "Storage unavailable"
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	pair, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return common.NewAppError(http.StatusUnauthorized, err.Error(), nil)
		case errors.Is(err, service.ErrStorageUnavailable):
			return common.NewAppError(http.StatusServiceUnavailable, "Temporarily unable to log in", err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Description  Redeems a refresh token. The presented token is revoked and a new one issued in the same transaction.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token body model.RefreshRequest true "Refresh payload"
// @Success      200  {object}  service.TokenPair
// @Failure      400  {object}  common.AppError "Invalid payload"
// @Failure      401  {object}  common.AppError "Refresh token invalid or expired"
// @Failure      503  {object}  common.AppError "Storage unavailable"
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	pair, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshExpired):
			return common.NewAppError(http.StatusUnauthorized, "Refresh token expired", nil)
		case errors.Is(err, service.ErrRefreshNotFound), errors.Is(err, service.ErrRefreshRevoked):
			// Deliberately indistinguishable: not-found and revoked share
			// one message so the response leaks nothing about stored state.
			return common.NewAppError(http.StatusUnauthorized, "Refresh token invalid", nil)
		case errors.Is(err, service.ErrStorageUnavailable):
			return common.NewAppError(http.StatusServiceUnavailable, "Temporarily unable to refresh", err)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not refresh token", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Logout godoc
// @Summary      Logout the current session
// @Description  Blacklists the presented access token and revokes the refresh token named in the body, if any.
// @Tags         auth
// @Accept       json
// @Security     BearerAuth
// @Param        token body model.LogoutRequest false "Optional refresh token to revoke"
// @Success      204  "Logged out"
// @Failure      401  {object}  common.AppError "Unauthorized"
// @Failure      503  {object}  common.AppError "Storage unavailable"
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	accessToken, claims, appErr := identityFromContext(r)
	if appErr != nil {
		return appErr
	}

	// The body is optional; an empty or absent body means only the access
	// token is retired.
	var req model.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return common.NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}

	if err := h.auth.Logout(accessToken, claims, req.RefreshToken); err != nil {
		return common.NewAppError(http.StatusServiceUnavailable, "Temporarily unable to log out", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// LogoutAll godoc
// @Summary      Logout everywhere
// @Description  Blacklists the presented access token and revokes every refresh token of the user.
// @Tags         auth
// @Security     BearerAuth
// @Success      204  "Logged out everywhere"
// @Failure      401  {object}  common.AppError "Unauthorized"
// @Failure      503  {object}  common.AppError "Storage unavailable"
// @Router       /api/v1/auth/logout-all [post]
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) *common.AppError {
	accessToken, claims, appErr := identityFromContext(r)
	if appErr != nil {
		return appErr
	}

	if _, err := h.auth.LogoutAll(accessToken, claims); err != nil {
		return common.NewAppError(http.StatusServiceUnavailable, "Temporarily unable to log out", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// identityFromContext pulls the raw token and claims the auth middleware
// stored on the request.
func identityFromContext(r *http.Request) (string, *model.AppClaims, *common.AppError) {
	accessToken, ok := r.Context().Value(AccessTokenKey).(string)
	if !ok {
		return "", nil, common.NewAppError(http.StatusUnauthorized, "Missing token in request context", nil)
	}
	claims, ok := r.Context().Value(ClaimsKey).(*model.AppClaims)
	if !ok {
		return "", nil, common.NewAppError(http.StatusUnauthorized, "Missing claims in request context", nil)
	}
	return accessToken, claims, nil
}
