package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestBlacklistRepository_Add(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlacklistRepository(db)
	expiresAt := time.Now().Add(30 * time.Minute)

	t.Run("inserts new token", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO token_blacklist (token, expires_at) VALUES ($1, $2) ON CONFLICT (token) DO NOTHING`)).
			WithArgs("access-token", expiresAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		assert.NoError(t, repo.Add("access-token", expiresAt))
	})

	t.Run("duplicate insert is a no-op", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO token_blacklist (token, expires_at) VALUES ($1, $2) ON CONFLICT (token) DO NOTHING`)).
			WithArgs("access-token", expiresAt).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Add("access-token", expiresAt))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlacklistRepository_Contains(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlacklistRepository(db)
	query := regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE token = $1)`)

	mock.ExpectQuery(query).WithArgs("revoked-token").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(query).WithArgs("live-token").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	revoked, err := repo.Contains("revoked-token")
	assert.NoError(t, err)
	assert.True(t, revoked)

	live, err := repo.Contains("live-token")
	assert.NoError(t, err)
	assert.False(t, live)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlacklistRepository_PurgeExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlacklistRepository(db)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM token_blacklist WHERE expires_at < $1`)).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.PurgeExpired(now)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
