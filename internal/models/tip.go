package models

import "time"

// Tip is a short kitchen tip with views and per-user likes.
type Tip struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Media       Media     `gorm:"embedded;embeddedPrefix:media_" json:"media"`
	Views       int64     `gorm:"default:0" json:"views"`
	LikesCount  int64     `gorm:"-" json:"likes_count"`
	CreatedBy   uint      `gorm:"index;not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Tip) TableName() string { return "tips" }

// TipLike records one user liking one tip.
type TipLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TipID     uint      `gorm:"uniqueIndex:idx_tip_like;not null" json:"tip_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_tip_like;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (TipLike) TableName() string { return "tip_likes" }
