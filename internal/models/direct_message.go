package models

import "time"

// DirectMessage is a persisted one-to-one message. Rows are immutable once
// created and carry plain user identifiers only.
type DirectMessage struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	SenderID   string    `gorm:"type:varchar(36);not null;index:idx_dm_participants,priority:1"`
	ReceiverID string    `gorm:"type:varchar(36);not null;index:idx_dm_participants,priority:2"`
	Content    string    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"index"`
	Read       bool      `gorm:"not null;default:false"`
}

// Participant is the display form of a message endpoint.
type Participant struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// DirectMessageView is the wire shape of a direct message, with both
// participants resolved to display names.
type DirectMessageView struct {
	ID        string      `json:"_id"`
	Sender    Participant `json:"sender"`
	Receiver  Participant `json:"receiver"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	Read      bool        `json:"read"`
}
