package models

import "time"

// Event represents a loggable action or alert in the system.
type Event struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Type      string    `gorm:"not null;index" json:"type"` // e.g., "artwork.deleted", "wishlist.like_drift"
	Level     string    `gorm:"not null" json:"level"`      // e.g., "info", "warn", "error"
	Message   string    `json:"message"`
	SubjectID *string   `gorm:"type:varchar(36)" json:"subjectId,omitempty"` // Nullable for system-wide events
	OwnerID   *string   `gorm:"type:varchar(36);index" json:"-"`               // User allowed to see the event
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}
