package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"staff-api/common"
	"staff-api/handler"
	"staff-api/model"
	"staff-api/repository"
	"staff-api/router"
	"staff-api/service"
)

// testNow is the pinned wall clock for every handler test. Whole seconds only,
// so JWT timestamps round-trip exactly.
var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const (
	testAccessTTL  = 30 * time.Minute
	testRefreshTTL = 7 * 24 * time.Hour
)

// testStack wires the real router over a sqlmock database.
type testStack struct {
	Router http.Handler
	Auth   *service.AuthService
	Mock   sqlmock.Sqlmock
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewTokenRepository(db),
		repository.NewBlacklistRepository(db),
		service.AuthConfig{
			SecretKeys:      []string{"handler-test-key"},
			AccessTokenTTL:  testAccessTTL,
			RefreshTokenTTL: testRefreshTTL,
		},
	)
	authService.Clock = func() time.Time { return testNow }

	staffService := service.NewStaffService(repository.NewStaffRepository(db), nil)
	staffService.Clock = func() time.Time { return testNow }

	r := router.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewStaffHandler(staffService),
		handler.NewAuthMiddleware(authService),
	)

	return &testStack{Router: r, Auth: authService, Mock: mock}
}

// issueTestToken mints a real access token for the pinned test user.
func (s *testStack) issueTestToken(t *testing.T) string {
	t.Helper()
	token, err := s.Auth.IssueAccessToken(&model.User{ID: 1, Username: "admin"})
	require.NoError(t, err)
	return token
}

func quickTestHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func userRow(hash string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "hashed_password", "created_at", "updated_at"}).
		AddRow(1, "admin", hash, testNow, testNow)
}

func expectBlacklistCheck(mock sqlmock.Sqlmock, blacklisted bool) {
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM token_blacklist WHERE token = \$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(blacklisted))
}

func decodeError(t *testing.T, body *bytes.Buffer) common.AppError {
	t.Helper()
	var appErr common.AppError
	require.NoError(t, json.NewDecoder(body).Decode(&appErr))
	return appErr
}
