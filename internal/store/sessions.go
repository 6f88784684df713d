package store

import (
	"errors"
	"time"

	"github.com/rahasiadapur/backend/internal/models"
	"gorm.io/gorm"
)

// Sessions is the per-user collection of refresh-token records. All
// operations are scoped to a user id; mutations rely on the database for
// per-row atomicity.
type Sessions struct {
	db *gorm.DB
}

func NewSessions(db *gorm.DB) *Sessions {
	return &Sessions{db: db}
}

// Add appends a refresh-token record for a device.
func (s *Sessions) Add(userID uint, tokenValue, device string) error {
	return s.db.Create(&models.Session{
		UserID: userID,
		Token:  tokenValue,
		Device: device,
	}).Error
}

// ReplaceByDevice removes any existing record for the device and inserts the
// new one in a single transaction, so a login can never leave zero or two
// records for one device.
func (s *Sessions) ReplaceByDevice(userID uint, device, tokenValue string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND device = ?", userID, device).
			Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Session{
			UserID: userID,
			Token:  tokenValue,
			Device: device,
		}).Error
	})
}

// FindByToken looks up a record by exact token value. Returns (nil, nil)
// when the token is not present; that absence is the reuse-detection gate.
func (s *Sessions) FindByToken(userID uint, tokenValue string) (*models.Session, error) {
	var session models.Session
	err := s.db.Where("user_id = ? AND token = ?", userID, tokenValue).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// ReplaceToken conditionally swaps an old token value for a new one in place,
// preserving the device. It reports whether a record with the old value still
// existed: under concurrent refreshes only the first writer succeeds, the
// loser sees matched == false.
func (s *Sessions) ReplaceToken(userID uint, oldValue, newValue string) (bool, error) {
	result := s.db.Model(&models.Session{}).
		Where("user_id = ? AND token = ?", userID, oldValue).
		Updates(map[string]interface{}{
			"token":      newValue,
			"created_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RemoveByToken deletes the single record holding the exact token value.
func (s *Sessions) RemoveByToken(userID uint, tokenValue string) error {
	return s.db.Where("user_id = ? AND token = ?", userID, tokenValue).
		Delete(&models.Session{}).Error
}

// RemoveByDevice deletes any record for the given device label.
func (s *Sessions) RemoveByDevice(userID uint, device string) error {
	return s.db.Where("user_id = ? AND device = ?", userID, device).
		Delete(&models.Session{}).Error
}

// ClearAll empties the user's session list: logout-all and the
// reuse-detection response.
func (s *Sessions) ClearAll(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.Session{}).Error
}

// ListForUser returns all session records for a user, oldest first.
func (s *Sessions) ListForUser(userID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&sessions).Error
	return sessions, err
}

// DeleteExpired removes records issued before the cutoff. Their tokens are
// past the refresh TTL and can never pass signature verification again.
func (s *Sessions) DeleteExpired(cutoff time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
