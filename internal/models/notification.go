package models

import "time"

const (
	NotificationFollow = "follow"
	NotificationLike   = "like"
)

// Notification represents one follow or like event (PostgreSQL).
// FromID and ToID hold user ObjectIDs in hex.
type Notification struct {
	ID        uint      `json:"_id" gorm:"primaryKey"`
	FromID    string    `json:"from" gorm:"size:24;index"`
	ToID      string    `json:"to" gorm:"size:24;index"`
	Type      string    `json:"type" gorm:"size:10"`
	Read      bool      `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// NotificationView includes actor info
type NotificationView struct {
	ID        uint         `json:"_id"`
	From      *UserCompact `json:"from"`
	To        string       `json:"to"`
	Type      string       `json:"type"`
	Read      bool         `json:"read"`
	CreatedAt time.Time    `json:"createdAt"`
}
