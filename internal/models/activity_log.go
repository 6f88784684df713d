package models

import "time"

// Activity log entry types.
const (
	ActivityTypeUser   = "USER"
	ActivityTypeRecipe = "RECIPE"
	ActivityTypeTips   = "TIPS"
)

// ActivityLog is an audit row written fire-and-forget on notable actions.
type ActivityLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      *uint     `gorm:"index" json:"user_id,omitempty"`
	Action      string    `gorm:"size:50;not null" json:"action"`
	Type        string    `gorm:"size:20;not null" json:"type"` // USER, RECIPE, TIPS
	ReferenceID *uint     `json:"reference_id,omitempty"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
