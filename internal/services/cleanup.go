package services

import (
	"time"

	"github.com/rahasiadapur/backend/internal/store"
	"github.com/rahasiadapur/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const activityLogRetention = 90 * 24 * time.Hour

// CleanupScheduler periodically purges expired session records and old
// activity-log rows. Expired sessions are dead weight: their tokens can no
// longer pass signature verification, the rows only slow down lookups.
type CleanupScheduler struct {
	cron       *cron.Cron
	db         *gorm.DB
	sessions   *store.Sessions
	refreshTTL time.Duration
}

func NewCleanupScheduler(db *gorm.DB, sessions *store.Sessions, refreshTTL time.Duration) *CleanupScheduler {
	return &CleanupScheduler{
		cron:       cron.New(),
		db:         db,
		sessions:   sessions,
		refreshTTL: refreshTTL,
	}
}

// Start registers the jobs and launches the scheduler: sessions hourly,
// activity logs daily.
func (s *CleanupScheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.purgeSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@daily", s.purgeActivityLogs); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("cleanup scheduler started")
	return nil
}

func (s *CleanupScheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *CleanupScheduler) purgeSessions() {
	cutoff := time.Now().Add(-s.refreshTTL)
	removed, err := s.sessions.DeleteExpired(cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("session cleanup failed")
		return
	}
	if removed > 0 {
		logger.Info().Int64("removed", removed).Msg("expired sessions purged")
	}
}

func (s *CleanupScheduler) purgeActivityLogs() {
	removed, err := PurgeActivityLogs(s.db, activityLogRetention)
	if err != nil {
		logger.Error().Err(err).Msg("activity log cleanup failed")
		return
	}
	if removed > 0 {
		logger.Info().Int64("removed", removed).Msg("old activity logs purged")
	}
}
