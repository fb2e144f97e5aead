package models

import "time"

// Category is one of the fixed artwork categories.
type Category string

const (
	CategoryPainting    Category = "painting"
	CategorySculpture   Category = "sculpture"
	CategoryCandle      Category = "candle"
	CategoryPhotography Category = "photography"
	CategoryResin       Category = "resin"
	CategoryJewellery   Category = "hand-made jewellery"
	CategorySketching   Category = "sketching"
	CategoryDigitalArt  Category = "digital art"
	CategoryCrafts      Category = "crafts"
	CategoryOthers      Category = "others"
)

// Categories lists every accepted category in display order.
var Categories = []Category{
	CategoryPainting, CategorySculpture, CategoryCandle, CategoryPhotography, CategoryResin,
	CategoryJewellery, CategorySketching, CategoryDigitalArt, CategoryCrafts, CategoryOthers,
}

// IsValidCategory reports whether c is an accepted category.
func IsValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Artwork is a piece listed by an artist. Likes is a denormalized tally of
// wishlist additions and never drops below zero.
type Artwork struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null;default:''" json:"description"`
	ImageURL    string    `gorm:"not null" json:"imageUrl"`
	ImageID     string    `json:"imageId,omitempty"`
	Category    Category  `gorm:"type:varchar(32);not null" json:"category"`
	Price       *float64  `json:"price"`
	ArtistID    string    `gorm:"type:varchar(36);not null;index" json:"artist"`
	Likes       int       `gorm:"not null;default:0" json:"likes"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`

	ArtistName string `gorm:"-" json:"artistName,omitempty"`
}

// WishlistItem is the trimmed artwork shape returned by the wishlist listing.
type WishlistItem struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Category    Category `json:"category"`
}
