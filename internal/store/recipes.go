package store

import (
	"errors"
	"time"

	"github.com/rahasiadapur/backend/internal/models"
	"gorm.io/gorm"
)

// Recipes is the recipe repository.
type Recipes struct {
	db *gorm.DB
}

func NewRecipes(db *gorm.DB) *Recipes {
	return &Recipes{db: db}
}

func (s *Recipes) Create(recipe *models.Recipe) error {
	return s.db.Create(recipe).Error
}

// FindByID loads a recipe. Returns (nil, nil) when no such recipe exists.
func (s *Recipes) FindByID(id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recipe, nil
}

// TitleExistsForAuthor reports whether the author already has a recipe with
// this title, excluding excludeID (0 to exclude nothing).
func (s *Recipes) TitleExistsForAuthor(title string, author uint, excludeID uint) (bool, error) {
	query := s.db.Model(&models.Recipe{}).
		Where("title = ? AND created_by = ?", title, author)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Recipes) Save(recipe *models.Recipe) error {
	return s.db.Save(recipe).Error
}

func (s *Recipes) Delete(id uint) error {
	return s.db.Delete(&models.Recipe{}, id).Error
}

// List returns a page of recipes matching the optional title/category search,
// newest first, together with the total match count.
func (s *Recipes) List(search string, page, limit int) ([]models.Recipe, int64, error) {
	query := s.db.Model(&models.Recipe{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR category LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, total, nil
}

// IncrementViews bumps the view counter without loading the row.
func (s *Recipes) IncrementViews(id uint) error {
	return s.db.Model(&models.Recipe{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (s *Recipes) Count() (int64, error) {
	var count int64
	err := s.db.Model(&models.Recipe{}).Count(&count).Error
	return count, err
}

// CategoryCount is one slice of the recipes-per-category chart.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CountByCategory groups recipes per category, largest group first.
func (s *Recipes) CountByCategory() ([]CategoryCount, error) {
	var rows []CategoryCount
	err := s.db.Model(&models.Recipe{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Order("count DESC").
		Find(&rows).Error
	return rows, err
}

// CreatedSince returns the creation timestamps of recipes created on or after
// the cutoff. Bucketing happens in Go so the query stays dialect-independent.
func (s *Recipes) CreatedSince(cutoff time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := s.db.Model(&models.Recipe{}).
		Where("created_at >= ?", cutoff).
		Pluck("created_at", &stamps).Error
	return stamps, err
}
