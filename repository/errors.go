package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrDuplicateKey marks a unique-constraint violation (pq code 23505).
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrTokenConsumed signals that a refresh token was already revoked when
	// a rotation tried to consume it.
	ErrTokenConsumed = errors.New("refresh token already consumed")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
