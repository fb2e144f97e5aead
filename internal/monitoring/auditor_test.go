package monitoring

import (
	"context"
	"errors"
	"testing"

	"github.com/isdelr/artverse-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFinder struct {
	mock.Mock
}

func (m *mockFinder) FindLikeDrift(ctx context.Context) ([]models.LikeDrift, error) {
	args := m.Called(ctx)
	drift, _ := args.Get(0).([]models.LikeDrift)
	return drift, args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) CreateEvent(ctx context.Context, eventType, level, message string, subjectID, ownerID *string) error {
	args := m.Called(ctx, eventType, level, message, subjectID, ownerID)
	return args.Error(0)
}

func TestLikeAuditor_Audit(t *testing.T) {
	finder := new(mockFinder)
	recorder := new(mockRecorder)
	drift := []models.LikeDrift{
		{ArtworkID: "a-1", ArtistID: "u-1", Likes: 2, Entries: 1},
		{ArtworkID: "a-2", ArtistID: "u-2", Likes: 0, Entries: 3},
	}
	finder.On("FindLikeDrift", mock.Anything).Return(drift, nil)

	ref := func(id string) interface{} {
		return mock.MatchedBy(func(s *string) bool { return s != nil && *s == id })
	}
	recorder.On("CreateEvent", mock.Anything, "wishlist.like_drift", "warn",
		"Artwork has 2 likes but 1 wishlist entries.", ref("a-1"), ref("u-1")).Return(nil).Once()
	recorder.On("CreateEvent", mock.Anything, "wishlist.like_drift", "warn",
		"Artwork has 0 likes but 3 wishlist entries.", ref("a-2"), ref("u-2")).Return(errors.New("db down")).Once()

	a, err := NewLikeAuditor(finder, recorder, "@every 1h")
	require.NoError(t, err)

	got, err := a.Audit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, drift, got)
	finder.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestLikeAuditor_AuditFinderError(t *testing.T) {
	finder := new(mockFinder)
	recorder := new(mockRecorder)
	finder.On("FindLikeDrift", mock.Anything).Return(nil, errors.New("db down"))

	a, err := NewLikeAuditor(finder, recorder, "@hourly")
	require.NoError(t, err)

	_, err = a.Audit(context.Background())
	assert.Error(t, err)
	recorder.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNewLikeAuditor_InvalidSchedule(t *testing.T) {
	_, err := NewLikeAuditor(new(mockFinder), new(mockRecorder), "every now and then")
	assert.Error(t, err)
}

func TestLikeAuditor_RunStop(t *testing.T) {
	a, err := NewLikeAuditor(new(mockFinder), new(mockRecorder), "@every 1h")
	require.NoError(t, err)

	a.Run()
	a.Stop()
}
