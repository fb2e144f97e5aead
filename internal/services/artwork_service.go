package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/isdelr/artverse-be/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ArtworkServiceProvider defines the interface for artwork services.
type ArtworkServiceProvider interface {
	CreateArtwork(ctx context.Context, artistID string, input ArtworkInput) (models.Artwork, error)
	GetArtworkByID(ctx context.Context, id string) (models.Artwork, error)
	ListByArtist(ctx context.Context, artistID string) ([]models.Artwork, error)
	Explore(ctx context.Context) ([]models.Artwork, error)
	Featured(ctx context.Context, n int) ([]models.Artwork, error)
	DeleteArtwork(ctx context.Context, callerID, id string) error
}

// ArtworkInput carries the fields an artist supplies for a new listing. The
// image itself is uploaded to the image host by the client beforehand.
type ArtworkInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	ImageURL    string   `json:"imageUrl" validate:"required,url"`
	ImageID     string   `json:"imageId" validate:"max=255"`
	Category    string   `json:"category" validate:"required"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
}

// ArtworkService provides business logic for artwork listings.
type ArtworkService struct {
	db        *gorm.DB
	users     UserServiceProvider
	events    EventServiceProvider
	publisher Publisher
}

// NewArtworkService creates a new ArtworkService. publisher may be nil.
func NewArtworkService(db *gorm.DB, users UserServiceProvider, events EventServiceProvider, publisher Publisher) *ArtworkService {
	return &ArtworkService{db: db, users: users, events: events, publisher: publisher}
}

// CreateArtwork stores a new listing owned by artistID.
func (s *ArtworkService) CreateArtwork(ctx context.Context, artistID string, input ArtworkInput) (models.Artwork, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.ImageURL) == "" {
		return models.Artwork{}, fmt.Errorf("%w: title and imageUrl are required", ErrValidation)
	}
	category := models.Category(strings.ToLower(strings.TrimSpace(input.Category)))
	if !models.IsValidCategory(category) {
		return models.Artwork{}, fmt.Errorf("%w: unknown category %q", ErrValidation, input.Category)
	}
	if input.Price != nil && *input.Price < 0 {
		return models.Artwork{}, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	artwork := models.Artwork{
		ID:          uuid.New().String(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		ImageID:     input.ImageID,
		Category:    category,
		Price:       input.Price,
		ArtistID:    artistID,
	}
	if err := s.db.WithContext(ctx).Create(&artwork).Error; err != nil {
		return models.Artwork{}, fmt.Errorf("failed to create artwork: %w", err)
	}
	return artwork, nil
}

// GetArtworkByID retrieves a single artwork.
func (s *ArtworkService) GetArtworkByID(ctx context.Context, id string) (models.Artwork, error) {
	if !validID(id) {
		return models.Artwork{}, fmt.Errorf("%w: artwork %s", ErrNotFound, id)
	}
	var artwork models.Artwork
	err := s.db.WithContext(ctx).First(&artwork, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Artwork{}, fmt.Errorf("%w: artwork %s", ErrNotFound, id)
	}
	if err != nil {
		return models.Artwork{}, fmt.Errorf("failed to load artwork: %w", err)
	}
	return artwork, nil
}

// ListByArtist returns an artist's listings, newest first.
func (s *ArtworkService) ListByArtist(ctx context.Context, artistID string) ([]models.Artwork, error) {
	if !validID(artistID) {
		return nil, fmt.Errorf("%w: invalid artist id", ErrValidation)
	}
	artworks := []models.Artwork{}
	err := s.db.WithContext(ctx).Where("artist_id = ?", artistID).Order("created_at DESC").Find(&artworks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list artworks: %w", err)
	}
	return artworks, nil
}

// Explore returns every listing with its artist's name, newest first.
func (s *ArtworkService) Explore(ctx context.Context) ([]models.Artwork, error) {
	artworks := []models.Artwork{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&artworks).Error; err != nil {
		return nil, fmt.Errorf("failed to list artworks: %w", err)
	}
	return s.withArtistNames(ctx, artworks)
}

// Featured returns up to n randomly chosen listings.
func (s *ArtworkService) Featured(ctx context.Context, n int) ([]models.Artwork, error) {
	if n <= 0 {
		n = 8
	}
	artworks := []models.Artwork{}
	if err := s.db.WithContext(ctx).Order("RANDOM()").Limit(n).Find(&artworks).Error; err != nil {
		return nil, fmt.Errorf("failed to sample artworks: %w", err)
	}
	return s.withArtistNames(ctx, artworks)
}

// DeleteArtwork removes a listing owned by callerID together with every
// wishlist entry pointing at it.
func (s *ArtworkService) DeleteArtwork(ctx context.Context, callerID, id string) error {
	artwork, err := s.GetArtworkByID(ctx, id)
	if err != nil {
		return err
	}
	if artwork.ArtistID != callerID {
		return fmt.Errorf("%w: not authorized to delete this artwork", ErrForbidden)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("artwork_id = ?", id).Delete(&models.WishlistEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Artwork{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete artwork: %w", err)
	}

	publish(s.publisher, "artwork.deleted", map[string]string{
		"artworkId": artwork.ID,
		"imageId":   artwork.ImageID,
	})
	if s.events != nil {
		msg := fmt.Sprintf("Artwork '%s' was deleted by its artist.", artwork.Title)
		if err := s.events.CreateEvent(ctx, "artwork.deleted", "info", msg, &artwork.ID, &artwork.ArtistID); err != nil {
			log.Warn().Err(err).Str("artwork_id", artwork.ID).Msg("Failed to record artwork deletion event")
		}
	}
	return nil
}

func (s *ArtworkService) withArtistNames(ctx context.Context, artworks []models.Artwork) ([]models.Artwork, error) {
	ids := make([]string, 0, len(artworks))
	for _, a := range artworks {
		ids = append(ids, a.ArtistID)
	}
	names, err := s.users.GetUsernames(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range artworks {
		artworks[i].ArtistName = names[artworks[i].ArtistID]
	}
	return artworks, nil
}
