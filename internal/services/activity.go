package services

import (
	"time"

	"github.com/rahasiadapur/backend/internal/models"
	"gorm.io/gorm"
)

var activityDB *gorm.DB

// InitActivityLogger sets the database used by LogActivity. Call once at
// process start, before any service writes a log row.
func InitActivityLogger(db *gorm.DB) {
	activityDB = db
}

// LogActivity writes an audit row. Failures are swallowed: the audit trail
// must never break the request that triggered it.
func LogActivity(userID *uint, action, activityType string, referenceID *uint, description string) {
	if activityDB == nil {
		return
	}

	activityDB.Create(&models.ActivityLog{
		UserID:      userID,
		Action:      action,
		Type:        activityType,
		ReferenceID: referenceID,
		Description: description,
	})
}

// RecentActivity returns the latest audit rows, newest first.
func RecentActivity(db *gorm.DB, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 20
	}

	var logs []models.ActivityLog
	err := db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// PurgeActivityLogs removes audit rows older than the retention window.
func PurgeActivityLogs(db *gorm.DB, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := db.Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	return result.RowsAffected, result.Error
}
