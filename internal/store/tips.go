package store

import (
	"errors"

	"github.com/rahasiadapur/backend/internal/models"
	"gorm.io/gorm"
)

// Tips is the tip repository. Like counts live in tip_likes and are joined in
// as a subquery, never denormalized onto the tip row.
type Tips struct {
	db *gorm.DB
}

func NewTips(db *gorm.DB) *Tips {
	return &Tips{db: db}
}

const likesCountExpr = "(SELECT COUNT(*) FROM tip_likes WHERE tip_likes.tip_id = tips.id)"

func (s *Tips) Create(tip *models.Tip) error {
	return s.db.Create(tip).Error
}

// FindByID loads a tip with its like count. Returns (nil, nil) when no such
// tip exists.
func (s *Tips) FindByID(id uint) (*models.Tip, error) {
	var tip models.Tip
	err := s.db.Model(&models.Tip{}).
		Select("tips.*, " + likesCountExpr + " AS likes_count").
		Where("tips.id = ?", id).
		First(&tip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tip, nil
}

func (s *Tips) Save(tip *models.Tip) error {
	return s.db.Save(tip).Error
}

// Delete removes a tip and its likes.
func (s *Tips) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tip_id = ?", id).Delete(&models.TipLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tip{}, id).Error
	})
}

// List returns a page of tips matching the optional title search, newest
// first, each with its like count, together with the total match count.
func (s *Tips) List(search string, page, limit int) ([]models.Tip, int64, error) {
	query := s.db.Model(&models.Tip{})
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tips []models.Tip
	if err := query.
		Select("tips.*, " + likesCountExpr + " AS likes_count").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&tips).Error; err != nil {
		return nil, 0, err
	}

	return tips, total, nil
}

// Trending returns the top tips scored by views + 3x likes.
func (s *Tips) Trending(limit int) ([]models.Tip, error) {
	var tips []models.Tip
	err := s.db.Model(&models.Tip{}).
		Select("tips.*, " + likesCountExpr + " AS likes_count").
		Order("views + " + likesCountExpr + " * 3 DESC").
		Limit(limit).
		Find(&tips).Error
	return tips, err
}

// IncrementViews bumps the view counter without loading the row.
func (s *Tips) IncrementViews(id uint) error {
	return s.db.Model(&models.Tip{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// ToggleLike flips the user's like on a tip. Returns true when the tip is
// liked after the call, false when the like was removed.
func (s *Tips) ToggleLike(tipID, userID uint) (bool, error) {
	var liked bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.TipLike
		err := tx.Where("tip_id = ? AND user_id = ?", tipID, userID).First(&existing).Error
		if err == nil {
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		liked = true
		return tx.Create(&models.TipLike{TipID: tipID, UserID: userID}).Error
	})
	return liked, err
}

// LikeCount returns how many users like the tip.
func (s *Tips) LikeCount(tipID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.TipLike{}).Where("tip_id = ?", tipID).Count(&count).Error
	return count, err
}

func (s *Tips) Count() (int64, error) {
	var count int64
	err := s.db.Model(&models.Tip{}).Count(&count).Error
	return count, err
}
