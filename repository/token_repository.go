// file: repository/token_repository.go

package repository

import (
	"database/sql"
	"fmt"
	"staff-api/logger"
	"staff-api/model"
	"time"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token database operations.
type ITokenRepository interface {
	Create(token *model.RefreshToken) error
	GetByToken(tokenString string) (*model.RefreshToken, error)
	Rotate(oldToken string, usedAt time.Time, next *model.RefreshToken) error
	Revoke(tokenString string) error
	RevokeAllForUser(userID int) (int64, error)
	PurgeExpired(now time.Time) (int64, error)
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Create inserts a new refresh token record into the database.
func (r *TokenRepository) Create(token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.DB.QueryRow(query, token.UserID, token.Token, token.ExpiresAt).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// GetByToken retrieves a refresh token row by its token string.
func (r *TokenRepository) GetByToken(tokenString string) (*model.RefreshToken, error) {
	token := &model.RefreshToken{}
	query := `SELECT id, token, user_id, is_revoked, created_at, expires_at, last_used_at FROM refresh_tokens WHERE token = $1`
	err := r.DB.QueryRow(query, tokenString).Scan(
		&token.ID, &token.Token, &token.UserID, &token.IsRevoked,
		&token.CreatedAt, &token.ExpiresAt, &token.LastUsedAt,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get refresh token query")
		}
		return nil, err // Return sql.ErrNoRows if not found.
	}
	return token, nil
}

// Rotate consumes oldToken and inserts its successor inside one transaction.
// The conditional update on is_revoked makes redemption at-most-once: of two
// concurrent redemptions of the same token, exactly one sees a row count of 1.
// The loser gets ErrTokenConsumed and no successor is inserted for it.
func (r *TokenRepository) Rotate(oldToken string, usedAt time.Time, next *model.RefreshToken) error {
	log := logger.Log.WithField("user_id", next.UserID)
	log.Info("Executing transaction to rotate a refresh token")

	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE refresh_tokens SET is_revoked = TRUE, last_used_at = $2 WHERE token = $1 AND is_revoked = FALSE`,
		oldToken, usedAt,
	)
	if err != nil {
		log.WithError(err).Error("Failed to revoke refresh token during rotation")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTokenConsumed
	}

	err = tx.QueryRow(
		`INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3) RETURNING id, created_at`,
		next.UserID, next.Token, next.ExpiresAt,
	).Scan(&next.ID, &next.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to insert successor refresh token during rotation")
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit rotation: %w", err)
	}
	return nil
}

// Revoke marks a single refresh token as revoked.
func (r *TokenRepository) Revoke(tokenString string) error {
	_, err := r.DB.Exec(`UPDATE refresh_tokens SET is_revoked = TRUE WHERE token = $1`, tokenString)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute revoke refresh token query")
		return err
	}
	return nil
}

// RevokeAllForUser revokes every live refresh token of a user.
// This is used for logging out from all sessions.
func (r *TokenRepository) RevokeAllForUser(userID int) (int64, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to revoke all refresh tokens for a user")

	res, err := r.DB.Exec(`UPDATE refresh_tokens SET is_revoked = TRUE WHERE user_id = $1 AND is_revoked = FALSE`, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute revoke all refresh tokens query")
		return 0, err
	}
	return res.RowsAffected()
}

// PurgeExpired deletes rows whose expiry is strictly before now. Revoked but
// unexpired rows are kept until expiry so rotation audits stay intact.
func (r *TokenRepository) PurgeExpired(now time.Time) (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM refresh_tokens WHERE expires_at < $1`, now)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute purge expired refresh tokens query")
		return 0, err
	}
	return res.RowsAffected()
}
