package models

import "time"

// WishlistEntry records that a user liked an artwork. The composite key makes
// membership a set.
type WishlistEntry struct {
	UserID    string    `gorm:"primaryKey;type:varchar(36)"`
	ArtworkID string    `gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt time.Time
}

// LikeDrift describes an artwork whose like counter disagrees with the number
// of wishlist entries pointing at it.
type LikeDrift struct {
	ArtworkID string `json:"artworkId"`
	ArtistID  string `json:"artistId"`
	Likes     int    `json:"likes"`
	Entries   int    `json:"entries"`
}
