package service

import (
	"database/sql"
	"errors"
	"staff-api/logger"
	"staff-api/repository"
	"time"
)

const storeRetryBackoff = 100 * time.Millisecond

// retryOnce re-runs op after a short backoff when the first attempt fails
// with a transient storage error. Only idempotent operations may go through
// here; rotation in particular must not.
func retryOnce(op func() error) error {
	err := op()
	if err == nil || !isTransient(err) {
		return err
	}
	logger.Log.WithError(err).Warn("Transient storage error, retrying once")
	time.Sleep(storeRetryBackoff)
	return op()
}

// isTransient treats everything except the well-known outcome errors as a
// retryable storage fault.
func isTransient(err error) bool {
	if err == nil ||
		errors.Is(err, sql.ErrNoRows) ||
		errors.Is(err, repository.ErrDuplicateKey) ||
		errors.Is(err, repository.ErrTokenConsumed) {
		return false
	}
	return true
}
