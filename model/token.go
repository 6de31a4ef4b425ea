// file: model/token.go

package model

import (
	"database/sql"
	"time"
)

// RefreshToken holds the data for a refresh token in the database. The token
// string itself is opaque: possession of it plus an unrevoked, unexpired row
// is the only proof of validity.
type RefreshToken struct {
	ID         int          `json:"id"`
	Token      string       `json:"-"` // Never exposed in JSON responses.
	UserID     int          `json:"user_id"`
	IsRevoked  bool         `json:"is_revoked"`
	CreatedAt  time.Time    `json:"created_at"`
	ExpiresAt  time.Time    `json:"expires_at"`
	LastUsedAt sql.NullTime `json:"-"`
}

// BlacklistedToken is an access token rejected ahead of its natural expiry.
// expires_at mirrors the token's own exp claim so maintenance can purge rows
// that would be rejected by expiry validation anyway.
type BlacklistedToken struct {
	ID            int       `json:"id"`
	Token         string    `json:"-"`
	BlacklistedAt time.Time `json:"blacklisted_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}
