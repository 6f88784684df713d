package models

import "time"

// Session is one refresh-token record for one device of one user. The store
// holds the literal signed token: a refresh token only has authority while it
// is both cryptographically valid and present verbatim in this table.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;size:512;not null" json:"-"`
	Device    string    `gorm:"size:255;not null;default:unknown" json:"device"`
	CreatedAt time.Time `json:"created_at"`
}

func (Session) TableName() string { return "sessions" }
