package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/isdelr/artverse-be/internal/database"
	"github.com/isdelr/artverse-be/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.New("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func mustCreateUser(t *testing.T, svc *UserService, username string) models.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), username, username+"@artverse.test", "password123", models.RoleArtist)
	require.NoError(t, err)
	return user
}

func mustCreateArtwork(t *testing.T, db *gorm.DB, artistID, title string) models.Artwork {
	t.Helper()
	svc := NewArtworkService(db, NewUserService(db), nil, nil)
	artwork, err := svc.CreateArtwork(context.Background(), artistID, ArtworkInput{
		Title:    title,
		ImageURL: "https://img.artverse.test/" + title + ".jpg",
		ImageID:  "artverse/" + title,
		Category: "painting",
	})
	require.NoError(t, err)
	return artwork
}

type emitCall struct {
	UserID  string
	Topic   string
	Event   string
	Payload any
}

type recordingEmitter struct {
	mu    sync.Mutex
	calls []emitCall
}

func (e *recordingEmitter) EmitToUser(userID, event string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, emitCall{UserID: userID, Event: event, Payload: payload})
}

func (e *recordingEmitter) EmitToTopic(topic, event string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, emitCall{Topic: topic, Event: event, Payload: payload})
}

func (e *recordingEmitter) Calls() []emitCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]emitCall(nil), e.calls...)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(eventType string, payload any) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}
