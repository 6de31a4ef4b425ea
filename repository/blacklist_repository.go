// file: repository/blacklist_repository.go

package repository

import (
	"database/sql"
	"staff-api/logger"
	"time"
)

// IBlacklistRepository defines the contract for the access-token blacklist.
type IBlacklistRepository interface {
	Add(tokenString string, expiresAt time.Time) error
	Contains(tokenString string) (bool, error)
	PurgeExpired(now time.Time) (int64, error)
}

// BlacklistRepository implements IBlacklistRepository.
type BlacklistRepository struct {
	DB *sql.DB
}

func NewBlacklistRepository(db *sql.DB) *BlacklistRepository {
	return &BlacklistRepository{DB: db}
}

// Add records an access token as revoked until expiresAt. Inserting a token
// that is already blacklisted is a no-op, not an error.
func (r *BlacklistRepository) Add(tokenString string, expiresAt time.Time) error {
	log := logger.Log.WithField("expires_at", expiresAt)
	log.Info("Executing query to blacklist an access token")

	query := `INSERT INTO token_blacklist (token, expires_at) VALUES ($1, $2) ON CONFLICT (token) DO NOTHING`
	if _, err := r.DB.Exec(query, tokenString, expiresAt); err != nil {
		log.WithError(err).Error("Failed to execute blacklist insert query")
		return err
	}
	return nil
}

// Contains is the hot-path membership check, backed by the unique index on
// token.
func (r *BlacklistRepository) Contains(tokenString string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE token = $1)`
	if err := r.DB.QueryRow(query, tokenString).Scan(&exists); err != nil {
		logger.Log.WithError(err).Error("Failed to execute blacklist membership query")
		return false, err
	}
	return exists, nil
}

// PurgeExpired deletes rows whose expiry is strictly before now. Safe: a
// token past its own exp claim is rejected by signature validation anyway.
func (r *BlacklistRepository) PurgeExpired(now time.Time) (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM token_blacklist WHERE expires_at < $1`, now)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute purge expired blacklist query")
		return 0, err
	}
	return res.RowsAffected()
}
