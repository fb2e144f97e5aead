package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/isdelr/artverse-be/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WishlistServiceProvider defines the interface for wishlist services.
type WishlistServiceProvider interface {
	Add(ctx context.Context, userID, artworkID string) (models.Artwork, error)
	Remove(ctx context.Context, userID, artworkID string) (models.Artwork, error)
	List(ctx context.Context, userID string) ([]models.WishlistItem, error)
	FindLikeDrift(ctx context.Context) ([]models.LikeDrift, error)
}

// WishlistService keeps the artwork like counter and wishlist membership in
// step. The counter and the membership set are updated by two independent
// atomic statements, so they can drift under partial failure; FindLikeDrift
// reports such artworks.
type WishlistService struct {
	db *gorm.DB
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

// Add increments the artwork's like counter and puts it on the user's
// wishlist. The counter is a raw tally: adding twice counts twice while the
// wishlist keeps a single entry.
func (s *WishlistService) Add(ctx context.Context, userID, artworkID string) (models.Artwork, error) {
	if !validID(artworkID) {
		return models.Artwork{}, fmt.Errorf("%w: invalid artwork id", ErrValidation)
	}

	res := s.db.WithContext(ctx).Model(&models.Artwork{}).
		Where("id = ?", artworkID).
		UpdateColumn("likes", gorm.Expr("likes + 1"))
	if res.Error != nil {
		return models.Artwork{}, fmt.Errorf("failed to increment likes: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Artwork{}, fmt.Errorf("%w: artwork %s", ErrNotFound, artworkID)
	}

	entry := models.WishlistEntry{UserID: userID, ArtworkID: artworkID}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
		return models.Artwork{}, fmt.Errorf("failed to add wishlist entry: %w", err)
	}

	return s.reload(ctx, artworkID)
}

// Remove decrements the like counter, never below zero, and drops the
// artwork from the user's wishlist. Removing an artwork that is not on the
// wishlist still decrements the counter.
func (s *WishlistService) Remove(ctx context.Context, userID, artworkID string) (models.Artwork, error) {
	if !validID(artworkID) {
		return models.Artwork{}, fmt.Errorf("%w: invalid artwork id", ErrValidation)
	}

	res := s.db.WithContext(ctx).Model(&models.Artwork{}).
		Where("id = ?", artworkID).
		UpdateColumn("likes", gorm.Expr("CASE WHEN likes > 0 THEN likes - 1 ELSE 0 END"))
	if res.Error != nil {
		return models.Artwork{}, fmt.Errorf("failed to decrement likes: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Artwork{}, fmt.Errorf("%w: artwork %s", ErrNotFound, artworkID)
	}

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND artwork_id = ?", userID, artworkID).
		Delete(&models.WishlistEntry{}).Error
	if err != nil {
		return models.Artwork{}, fmt.Errorf("failed to remove wishlist entry: %w", err)
	}

	return s.reload(ctx, artworkID)
}

// List returns the user's wishlist in the order the artworks were liked.
func (s *WishlistService) List(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	items := []models.WishlistItem{}
	err := s.db.WithContext(ctx).
		Table("wishlist_entries AS w").
		Select("a.id, a.title, a.description, a.image_url, a.category").
		Joins("JOIN artworks AS a ON a.id = w.artwork_id").
		Where("w.user_id = ?", userID).
		Order("w.created_at ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}

// FindLikeDrift lists artworks whose like counter differs from the number of
// wishlist entries referencing them. It never modifies either value.
func (s *WishlistService) FindLikeDrift(ctx context.Context) ([]models.LikeDrift, error) {
	drift := []models.LikeDrift{}
	err := s.db.WithContext(ctx).
		Table("artworks AS a").
		Select("a.id AS artwork_id, a.artist_id AS artist_id, a.likes AS likes, COUNT(w.user_id) AS entries").
		Joins("LEFT JOIN wishlist_entries AS w ON w.artwork_id = a.id").
		Group("a.id, a.artist_id, a.likes").
		Having("a.likes <> COUNT(w.user_id)").
		Order("a.id").
		Scan(&drift).Error
	if err != nil {
		return nil, fmt.Errorf("failed to audit likes: %w", err)
	}
	return drift, nil
}

func (s *WishlistService) reload(ctx context.Context, artworkID string) (models.Artwork, error) {
	var artwork models.Artwork
	err := s.db.WithContext(ctx).First(&artwork, "id = ?", artworkID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Artwork{}, fmt.Errorf("%w: artwork %s", ErrNotFound, artworkID)
	}
	if err != nil {
		return models.Artwork{}, fmt.Errorf("failed to reload artwork: %w", err)
	}
	return artwork, nil
}
