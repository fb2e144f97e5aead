package models

import "time"

// GroupCategory is the topic a chat group is about.
type GroupCategory string

const (
	GroupCategoryPainting    GroupCategory = "painting"
	GroupCategorySculpture   GroupCategory = "sculpture"
	GroupCategoryDigitalArt  GroupCategory = "digital-art"
	GroupCategoryPhotography GroupCategory = "photography"
	GroupCategoryResin       GroupCategory = "resin"
	GroupCategoryCrafts      GroupCategory = "crafts"
	GroupCategorySketching   GroupCategory = "sketching"
	GroupCategoryOthers      GroupCategory = "others"
)

var GroupCategories = []GroupCategory{
	GroupCategoryPainting, GroupCategorySculpture, GroupCategoryDigitalArt, GroupCategoryPhotography,
	GroupCategoryResin, GroupCategoryCrafts, GroupCategorySketching, GroupCategoryOthers,
}

func IsValidGroupCategory(c GroupCategory) bool {
	for _, known := range GroupCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ChatGroup is a named, persistent group chat.
type ChatGroup struct {
	ID          string        `gorm:"primaryKey;type:varchar(36)"`
	Name        string        `gorm:"not null;uniqueIndex"`
	Category    GroupCategory `gorm:"type:varchar(32);not null"`
	Description string        `gorm:"not null"`
	CreatedBy   string        `gorm:"type:varchar(36);not null"`
	CreatedAt   time.Time     `gorm:"index"`
}

// ChatGroupMember records that a user belongs to a group. The composite key
// makes membership a set.
type ChatGroupMember struct {
	GroupID   string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"primaryKey;type:varchar(36);index"`
	Moderator bool      `gorm:"not null;default:false"`
	JoinedAt  time.Time `gorm:"autoCreateTime"`
}

// ChatMessage is a persisted group chat message.
type ChatMessage struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	GroupID   string    `gorm:"type:varchar(36);not null;index:idx_chat_group_created,priority:1"`
	SenderID  string    `gorm:"type:varchar(36);not null"`
	Content   string    `gorm:"not null"`
	MediaURL  string
	MediaType string    `gorm:"type:varchar(8)"`
	CreatedAt time.Time `gorm:"index:idx_chat_group_created,priority:2"`
}

// ChatGroupView is the wire shape of a group with its people resolved.
type ChatGroupView struct {
	ID          string        `json:"_id"`
	Name        string        `json:"name"`
	Category    GroupCategory `json:"category"`
	Description string        `json:"description"`
	CreatedBy   Participant   `json:"createdBy"`
	Members     []Participant `json:"members"`
	Moderators  []Participant `json:"moderators"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ChatMessageView is the wire shape of a group message.
type ChatMessageView struct {
	ID        string      `json:"_id"`
	GroupID   string      `json:"groupId"`
	Sender    Participant `json:"sender"`
	Content   string      `json:"content"`
	MediaURL  string      `json:"mediaUrl,omitempty"`
	MediaType string      `json:"mediaType,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}
