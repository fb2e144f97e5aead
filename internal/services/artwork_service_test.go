package services

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/artverse-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestArtworkService_CreateArtwork(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	svc := NewArtworkService(db, users, nil, nil)
	artist := mustCreateUser(t, users, "mira")
	price := 120.5

	artwork, err := svc.CreateArtwork(context.Background(), artist.ID, ArtworkInput{
		Title:    "  Harbour at Dusk ",
		ImageURL: "https://img.artverse.test/harbour.jpg",
		Category: "Digital Art",
		Price:    &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "Harbour at Dusk", artwork.Title)
	assert.Equal(t, models.CategoryDigitalArt, artwork.Category)
	assert.Equal(t, 0, artwork.Likes)
	assert.Equal(t, "", artwork.Description)
	require.NotNil(t, artwork.Price)
	assert.Equal(t, 120.5, *artwork.Price)

	stored, err := svc.GetArtworkByID(context.Background(), artwork.ID)
	require.NoError(t, err)
	assert.Equal(t, artist.ID, stored.ArtistID)
}

func TestArtworkService_CreateArtwork_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewArtworkService(db, NewUserService(db), nil, nil)
	negative := -1.0

	tests := []struct {
		name  string
		input ArtworkInput
	}{
		{"missing title", ArtworkInput{ImageURL: "https://x.test/a.jpg", Category: "painting"}},
		{"missing image", ArtworkInput{Title: "A", Category: "painting"}},
		{"unknown category", ArtworkInput{Title: "A", ImageURL: "https://x.test/a.jpg", Category: "pottery"}},
		{"negative price", ArtworkInput{Title: "A", ImageURL: "https://x.test/a.jpg", Category: "painting", Price: &negative}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateArtwork(context.Background(), "6f1c2a8e-3d5b-4c8e-9a1f-2b7d4e6c8a01", tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestArtworkService_Listings(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	svc := NewArtworkService(db, users, nil, nil)
	ctx := context.Background()
	mira := mustCreateUser(t, users, "mira")
	jonas := mustCreateUser(t, users, "jonas")

	older := mustCreateArtwork(t, db, mira.ID, "older")
	newer := mustCreateArtwork(t, db, mira.ID, "newer")
	other := mustCreateArtwork(t, db, jonas.ID, "other")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{older.ID, newer.ID, other.ID} {
		require.NoError(t, db.Model(&models.Artwork{}).Where("id = ?", id).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	mine, err := svc.ListByArtist(ctx, mira.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)

	none, err := svc.ListByArtist(ctx, "6f1c2a8e-3d5b-4c8e-9a1f-2b7d4e6c8a01")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = svc.ListByArtist(ctx, "undefined")
	assert.ErrorIs(t, err, ErrValidation)

	explore, err := svc.Explore(ctx)
	require.NoError(t, err)
	require.Len(t, explore, 3)
	assert.Equal(t, other.ID, explore[0].ID)
	assert.Equal(t, "jonas", explore[0].ArtistName)
	assert.Equal(t, "mira", explore[2].ArtistName)

	featured, err := svc.Featured(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, featured, 2)
	for _, a := range featured {
		assert.NotEmpty(t, a.ArtistName)
	}
}

func TestArtworkService_DeleteArtwork(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	events := NewEventService(db)
	pub := new(mockPublisher)
	svc := NewArtworkService(db, users, events, pub)
	wishlist := NewWishlistService(db)
	ctx := context.Background()

	owner := mustCreateUser(t, users, "owner")
	stranger := mustCreateUser(t, users, "stranger")
	artwork := mustCreateArtwork(t, db, owner.ID, "lantern")
	_, err := wishlist.Add(ctx, stranger.ID, artwork.ID)
	require.NoError(t, err)

	err = svc.DeleteArtwork(ctx, stranger.ID, artwork.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.GetArtworkByID(ctx, artwork.ID)
	require.NoError(t, err, "artwork must survive a rejected delete")

	err = svc.DeleteArtwork(ctx, owner.ID, "6f1c2a8e-3d5b-4c8e-9a1f-2b7d4e6c8a01")
	assert.ErrorIs(t, err, ErrNotFound)

	pub.On("Publish", "artwork.deleted", map[string]string{
		"artworkId": artwork.ID,
		"imageId":   "artverse/lantern",
	}).Return(nil).Once()

	require.NoError(t, svc.DeleteArtwork(ctx, owner.ID, artwork.ID))
	pub.AssertExpectations(t)

	_, err = svc.GetArtworkByID(ctx, artwork.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := wishlist.List(ctx, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	recent, err := events.GetRecentEvents(ctx, owner.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "artwork.deleted", recent[0].Type)
	require.NotNil(t, recent[0].SubjectID)
	assert.Equal(t, artwork.ID, *recent[0].SubjectID)
}

func TestArtworkService_DeleteArtwork_PublishFailureIsNotFatal(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	pub := new(mockPublisher)
	svc := NewArtworkService(db, users, nil, pub)
	owner := mustCreateUser(t, users, "owner")
	artwork := mustCreateArtwork(t, db, owner.ID, "vase")

	pub.On("Publish", "artwork.deleted", mock.Anything).Return(assert.AnError)

	assert.NoError(t, svc.DeleteArtwork(context.Background(), owner.ID, artwork.ID))
	pub.AssertExpectations(t)
}
