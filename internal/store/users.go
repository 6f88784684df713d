package store

import (
	"errors"
	"time"

	"github.com/rahasiadapur/backend/internal/models"
	"gorm.io/gorm"
)

// Users is the credential store: user identity, password hash and role.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create inserts a new user record.
func (s *Users) Create(user *models.User) error {
	return s.db.Create(user).Error
}

// FindByEmail loads a user by email, including the password hash.
// Returns (nil, nil) when no such user exists.
func (s *Users) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by id. Returns (nil, nil) when no such user exists.
func (s *Users) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// EmailExists reports whether a user with the given email exists.
func (s *Users) EmailExists(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists all fields of an existing user.
func (s *Users) Save(user *models.User) error {
	return s.db.Save(user).Error
}

// UpdatePassword replaces the stored password hash.
func (s *Users) UpdatePassword(id uint, hash string) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).Update("password", hash).Error
}

// Delete removes a user record.
func (s *Users) Delete(id uint) error {
	return s.db.Delete(&models.User{}, id).Error
}

// List returns a page of users matching the optional name search, newest
// first, together with the total match count.
func (s *Users) List(search string, page, limit int) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Count returns the total number of users.
func (s *Users) Count() (int64, error) {
	var count int64
	err := s.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// CreatedSince returns the creation timestamps of users created on or after
// the cutoff. Bucketing happens in Go so the query stays dialect-independent.
func (s *Users) CreatedSince(cutoff time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := s.db.Model(&models.User{}).
		Where("created_at >= ?", cutoff).
		Pluck("created_at", &stamps).Error
	return stamps, err
}
