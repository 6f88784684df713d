package models

import "time"

// Recipe is a cooking recipe with optional media.
type Recipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null;index" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:100;not null;index" json:"category"`
	Ingredients []string  `gorm:"serializer:json" json:"ingredients"`
	Steps       []string  `gorm:"serializer:json" json:"steps"`
	Views       int64     `gorm:"default:0" json:"views"`
	Media       Media     `gorm:"embedded;embeddedPrefix:media_" json:"media"`
	CreatedBy   uint      `gorm:"index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Recipe) TableName() string { return "recipes" }
