// file: app/integration_test.go

package app

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staff-api/config"
	"staff-api/logger"
	"staff-api/service"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// setupIntegration brings up the full stack against a real database. Set
// TEST_DATABASE_URL (postgres://...) to run; without it the suite skips.
func setupIntegration(t *testing.T) *TestApp {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	config.LoadConfig("..")

	database, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, database.Ping())
	t.Cleanup(func() { database.Close() })

	m, err := migrate.New("file://../db/migrations", dsn)
	require.NoError(t, err)
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("could not run migrations: %v", err)
	}

	_, err = database.Exec(`TRUNCATE users, staff, refresh_tokens, token_blacklist RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	redisAddr := os.Getenv("TEST_REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	t.Cleanup(func() { redisClient.Close() })

	return NewTestApp(database, redisClient)
}

func postJSON(t *testing.T, r http.Handler, target, bearer string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(body).Encode(payload))
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIntegration_SessionAndStaffLifecycle(t *testing.T) {
	ta := setupIntegration(t)

	// Register and log in.
	rec := postJSON(t, ta.Router, "/api/v1/auth/register", "",
		map[string]string{"username": "admin", "password": "admin0000"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = postJSON(t, ta.Router, "/api/v1/auth/login", "",
		map[string]string{"username": "admin", "password": "admin0000"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair service.TokenPair
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&pair))

	// Create and read back a staff member through the protected surface.
	rec = postJSON(t, ta.Router, "/api/v1/staff", pair.AccessToken, map[string]any{
		"staff_id": "EMP001",
		"name":     "Jane Doe",
		"dob":      "1990-03-15",
		"salary":   52000.50,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/staff/EMP001", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	getRec := httptest.NewRecorder()
	ta.Router.ServeHTTP(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)

	// Rotate the refresh token; the consumed one must stop working.
	rec = postJSON(t, ta.Router, "/api/v1/auth/refresh", "",
		map[string]string{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rotated service.TokenPair
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rotated))
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	rec = postJSON(t, ta.Router, "/api/v1/auth/refresh", "",
		map[string]string{"refresh_token": pair.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logout everywhere, then the blacklisted access token bounces.
	rec = postJSON(t, ta.Router, "/api/v1/auth/logout-all", rotated.AccessToken, map[string]string{})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/staff/EMP001", nil)
	req.Header.Set("Authorization", "Bearer "+rotated.AccessToken)
	getRec = httptest.NewRecorder()
	ta.Router.ServeHTTP(getRec, req)
	assert.Equal(t, http.StatusUnauthorized, getRec.Code)

	rec = postJSON(t, ta.Router, "/api/v1/auth/refresh", "",
		map[string]string{"refresh_token": rotated.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
