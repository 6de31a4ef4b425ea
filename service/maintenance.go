// file: service/maintenance.go

package service

import (
	"staff-api/logger"
	"time"

	"github.com/sirupsen/logrus"
)

// Janitor runs the periodic purge of expired refresh tokens and blacklist
// rows. It runs out of band so the purge never sits on a request path, and
// each purge is a single DELETE that takes no long-lived locks.
type Janitor struct {
	auth     *AuthService
	interval time.Duration
}

func NewJanitor(auth *AuthService, interval time.Duration) *Janitor {
	return &Janitor{auth: auth, interval: interval}
}

// Run blocks until stop is closed, purging on every tick.
func (j *Janitor) Run(stop <-chan struct{}) {
	logger.Log.WithField("interval", j.interval.String()).Info("Token janitor started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			refresh, blacklist, err := j.auth.PurgeExpired()
			if err != nil {
				logger.Log.WithError(err).Warn("Token purge failed, will retry next tick")
				continue
			}
			if refresh > 0 || blacklist > 0 {
				logger.Log.WithFields(logrus.Fields{
					"refresh_tokens":     refresh,
					"blacklisted_tokens": blacklist,
				}).Info("Purged expired tokens")
			}
		case <-stop:
			logger.Log.Info("Token janitor stopped")
			return
		}
	}
}
