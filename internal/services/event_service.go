package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/isdelr/artverse-be/internal/models"
	"gorm.io/gorm"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string, subjectID, ownerID *string) error
	GetRecentEvents(ctx context.Context, ownerID string, limit int) ([]models.Event, error)
}

// EventService provides business logic for event management.
type EventService struct {
	db *gorm.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// CreateEvent logs a new event to the database. ownerID is the user the event
// concerns; nil keeps it out of every user's feed.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string, subjectID, ownerID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		SubjectID: subjectID,
		OwnerID:   ownerID,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to record event %s: %w", eventType, err)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events owned by ownerID.
func (s *EventService) GetRecentEvents(ctx context.Context, ownerID string, limit int) ([]models.Event, error) {
	events := make([]models.Event, 0, limit)
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
