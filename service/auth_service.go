package service

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"staff-api/logger"
	"staff-api/model"
	"staff-api/repository"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrRefreshNotFound    = errors.New("refresh token not found")
	ErrRefreshExpired     = errors.New("refresh token expired")
	ErrRefreshRevoked     = errors.New("refresh token revoked")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

// refreshTokenBytes gives 384 bits of entropy, 64 characters once encoded.
const refreshTokenBytes = 48

// AuthConfig carries the signing material and token lifetimes. SecretKeys is
// ordered newest first: the first key signs, all keys verify.
type AuthConfig struct {
	SecretKeys      []string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// TokenPair is the login/refresh response payload.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthService owns the session lifecycle: credential verification, access
// token mint/verify, refresh token rotation and the access-token blacklist.
type AuthService struct {
	userRepo      repository.IUserRepository
	tokenRepo     repository.ITokenRepository
	blacklistRepo repository.IBlacklistRepository
	cfg           AuthConfig

	// Clock is the single time source for every expiry comparison so tests
	// can pin it.
	Clock func() time.Time

	// dummyHash keeps the bcrypt cost of an unknown-username login in the
	// same ballpark as a real mismatch.
	dummyHash []byte
}

func NewAuthService(
	userRepo repository.IUserRepository,
	tokenRepo repository.ITokenRepository,
	blacklistRepo repository.IBlacklistRepository,
	cfg AuthConfig,
) *AuthService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("no-such-user"), bcrypt.DefaultCost)
	return &AuthService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		blacklistRepo: blacklistRepo,
		cfg:           cfg,
		Clock:         time.Now,
		dummyHash:     dummy,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), err
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Register creates a new user. The username is normalized to lowercase before
// it reaches the unique constraint.
func (s *AuthService) Register(req model.RegisterRequest) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	hashed, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:       username,
		HashedPassword: hashed,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, ErrStorageUnavailable
	}

	logger.Log.WithField("username", username).Info("New user registered")
	return user, nil
}

// Login verifies the credentials and issues a fresh token pair. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(username, password string) (*TokenPair, error) {
	var user *model.User
	err := retryOnce(func() error {
		var err error
		user, err = s.userRepo.GetUserByUsername(username)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn a comparison so the response time does not reveal
			// whether the username exists.
			bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, ErrStorageUnavailable
	}

	if !s.CheckPasswordHash(password, user.HashedPassword) {
		logger.Log.WithField("username", username).Warn("Failed login attempt")
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(user)
}

// issuePair mints an access token and persists a new refresh token.
func (s *AuthService) issuePair(user *model.User) (*TokenPair, error) {
	accessToken, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.newRefreshToken()
	if err != nil {
		return nil, err
	}

	record := &model.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: s.Clock().Add(s.cfg.RefreshTokenTTL),
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return nil, ErrStorageUnavailable
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

// IssueAccessToken mints a short-lived HS256 token signed with the newest key.
// Verification needs no database lookup; early revocation goes through the
// blacklist instead.
func (s *AuthService) IssueAccessToken(user *model.User) (string, error) {
	now := s.Clock()
	claims := &model.AppClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.SecretKeys[0]))
	if err != nil {
		logger.Log.WithError(err).WithField("username", user.Username).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

// VerifyAccessToken runs the per-request gate: signature and structure first,
// then expiry, then the store-backed blacklist, cheapest check first.
func (s *AuthService) VerifyAccessToken(tokenString string) (*model.AppClaims, error) {
	var parseErr error
	var parsed *jwt.Token
	claims := &model.AppClaims{}

	for _, key := range s.cfg.SecretKeys {
		secret := []byte(key)
		claims = &model.AppClaims{}
		parsed, parseErr = jwt.ParseWithClaims(tokenString, claims,
			func(t *jwt.Token) (interface{}, error) { return secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(s.Clock),
		)
		if parseErr == nil && parsed.Valid {
			break
		}
		// An expiry failure means the signature matched this key; trying
		// older keys cannot make the token fresh again.
		if errors.Is(parseErr, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
	}
	if parseErr != nil || parsed == nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	var blacklisted bool
	err := retryOnce(func() error {
		var err error
		blacklisted, err = s.blacklistRepo.Contains(tokenString)
		return err
	})
	if err != nil {
		return nil, ErrStorageUnavailable
	}
	if blacklisted {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Refresh redeems a refresh token for a new token pair. Rotation is always
// on: the presented token is revoked and replaced in one transaction, so a
// stolen refresh token is good for at most one use.
func (s *AuthService) Refresh(tokenString string) (*TokenPair, error) {
	var record *model.RefreshToken
	err := retryOnce(func() error {
		var err error
		record, err = s.tokenRepo.GetByToken(tokenString)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefreshNotFound
		}
		return nil, ErrStorageUnavailable
	}

	now := s.Clock()
	if now.After(record.ExpiresAt) {
		return nil, ErrRefreshExpired
	}
	if record.IsRevoked {
		return nil, ErrRefreshRevoked
	}

	var user *model.User
	err = retryOnce(func() error {
		var err error
		user, err = s.userRepo.GetUserByID(record.UserID)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefreshNotFound
		}
		return nil, ErrStorageUnavailable
	}

	newToken, err := s.newRefreshToken()
	if err != nil {
		return nil, err
	}
	next := &model.RefreshToken{
		Token:     newToken,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
	}

	// Not retried: rotation is not idempotent, and a retry after a commit
	// that only appeared to fail would wrongly consume the successor.
	if err := s.tokenRepo.Rotate(tokenString, now, next); err != nil {
		if errors.Is(err, repository.ErrTokenConsumed) {
			// A concurrent redemption won the conditional update.
			logger.Log.WithField("user_id", user.ID).Warn("Refresh token presented after consumption")
			return nil, ErrRefreshRevoked
		}
		return nil, ErrStorageUnavailable
	}

	accessToken, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newToken,
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

// Logout blacklists the presented access token until its own expiry and, when
// the client names one, revokes the matching refresh token.
func (s *AuthService) Logout(accessToken string, claims *model.AppClaims, refreshToken string) error {
	err := retryOnce(func() error {
		return s.blacklistRepo.Add(accessToken, claims.ExpiresAt.Time)
	})
	if err != nil {
		return ErrStorageUnavailable
	}

	if refreshToken != "" {
		if err := s.tokenRepo.Revoke(refreshToken); err != nil {
			return ErrStorageUnavailable
		}
	}

	logger.Log.WithField("username", claims.Subject).Info("User logged out")
	return nil
}

// LogoutAll blacklists the presented access token and revokes every live
// refresh token of the user.
func (s *AuthService) LogoutAll(accessToken string, claims *model.AppClaims) (int64, error) {
	err := retryOnce(func() error {
		return s.blacklistRepo.Add(accessToken, claims.ExpiresAt.Time)
	})
	if err != nil {
		return 0, ErrStorageUnavailable
	}

	revoked, err := s.tokenRepo.RevokeAllForUser(claims.UserID)
	if err != nil {
		return 0, ErrStorageUnavailable
	}

	logger.Log.WithField("username", claims.Subject).Info("User logged out everywhere")
	return revoked, nil
}

// PurgeExpired removes refresh tokens and blacklist rows whose expiry is
// strictly in the past. Run out of band by the janitor, never per request.
func (s *AuthService) PurgeExpired() (refreshPurged, blacklistPurged int64, err error) {
	now := s.Clock()

	refreshPurged, err = s.tokenRepo.PurgeExpired(now)
	if err != nil {
		return 0, 0, err
	}
	blacklistPurged, err = s.blacklistRepo.PurgeExpired(now)
	if err != nil {
		return refreshPurged, 0, err
	}
	return refreshPurged, blacklistPurged, nil
}

// newRefreshToken returns an opaque, unguessable token string. There is
// nothing to forge: validity exists only as a database row.
func (s *AuthService) newRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
