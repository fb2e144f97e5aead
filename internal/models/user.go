package models

import "time"

// Role distinguishes buyers from artists.
type Role string

const (
	RoleClient Role = "client"
	RoleArtist Role = "artist"
)

// User represents a registered account.
type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Username     string    `gorm:"not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // Never expose this to the client
	Role         Role      `gorm:"type:varchar(16);not null;default:artist" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}
