package services

import (
	"context"
	"sync"
	"testing"

	"github.com/isdelr/artverse-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistService_AddIsTallyWithSetMembership(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	svc := NewWishlistService(db)
	ctx := context.Background()
	artist := mustCreateUser(t, users, "artist")
	fan := mustCreateUser(t, users, "fan")
	artwork := mustCreateArtwork(t, db, artist.ID, "moth")

	got, err := svc.Add(ctx, fan.ID, artwork.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)

	got, err = svc.Add(ctx, fan.ID, artwork.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Likes)

	items, err := svc.List(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, artwork.ID, items[0].ID)
	assert.Equal(t, "moth", items[0].Title)
	assert.Equal(t, artwork.ImageURL, items[0].ImageURL)
	assert.Equal(t, models.CategoryPainting, items[0].Category)
}

func TestWishlistService_RemoveNeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	svc := NewWishlistService(db)
	ctx := context.Background()
	artist := mustCreateUser(t, users, "artist")
	fan := mustCreateUser(t, users, "fan")
	artwork := mustCreateArtwork(t, db, artist.ID, "moth")

	_, err := svc.Add(ctx, fan.ID, artwork.ID)
	require.NoError(t, err)

	got, err := svc.Remove(ctx, fan.ID, artwork.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)

	got, err = svc.Remove(ctx, fan.ID, artwork.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)

	items, err := svc.List(ctx, fan.ID)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestWishlistService_Errors(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	svc := NewWishlistService(db)
	ctx := context.Background()
	fan := mustCreateUser(t, users, "fan")
	missing := "6f1c2a8e-3d5b-4c8e-9a1f-2b7d4e6c8a01"

	_, err := svc.Add(ctx, fan.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Remove(ctx, fan.ID, "not-an-id")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Add(ctx, fan.ID, missing)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Remove(ctx, fan.ID, missing)
	assert.ErrorIs(t, err, ErrNotFound)

	var entries int64
	require.NoError(t, db.Model(&models.WishlistEntry{}).Count(&entries).Error)
	assert.Zero(t, entries, "a missing artwork must not create a wishlist entry")

	_, err = svc.List(ctx, missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWishlistService_ConcurrentAddsAreNotLost(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	svc := NewWishlistService(db)
	ctx := context.Background()
	artist := mustCreateUser(t, users, "artist")
	artwork := mustCreateArtwork(t, db, artist.ID, "moth")
	fans := []models.User{
		mustCreateUser(t, users, "fan1"),
		mustCreateUser(t, users, "fan2"),
		mustCreateUser(t, users, "fan3"),
	}

	var wg sync.WaitGroup
	for _, fan := range fans {
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				_, err := svc.Add(ctx, userID, artwork.ID)
				assert.NoError(t, err)
			}(fan.ID)
		}
	}
	wg.Wait()

	var stored models.Artwork
	require.NoError(t, db.First(&stored, "id = ?", artwork.ID).Error)
	assert.Equal(t, 12, stored.Likes)

	var entries int64
	require.NoError(t, db.Model(&models.WishlistEntry{}).Where("artwork_id = ?", artwork.ID).Count(&entries).Error)
	assert.EqualValues(t, 3, entries)
}

func TestWishlistService_FindLikeDrift(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	svc := NewWishlistService(db)
	ctx := context.Background()
	artist := mustCreateUser(t, users, "artist")
	fan := mustCreateUser(t, users, "fan")
	drifted := mustCreateArtwork(t, db, artist.ID, "drifted")
	consistent := mustCreateArtwork(t, db, artist.ID, "consistent")

	_, err := svc.Add(ctx, fan.ID, drifted.ID)
	require.NoError(t, err)
	_, err = svc.Add(ctx, fan.ID, drifted.ID)
	require.NoError(t, err)
	_, err = svc.Add(ctx, fan.ID, consistent.ID)
	require.NoError(t, err)

	drift, err := svc.FindLikeDrift(ctx)
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, models.LikeDrift{ArtworkID: drifted.ID, ArtistID: artist.ID, Likes: 2, Entries: 1}, drift[0])

	var stored models.Artwork
	require.NoError(t, db.First(&stored, "id = ?", drifted.ID).Error)
	assert.Equal(t, 2, stored.Likes, "the audit must not correct counters")
}
