package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/isdelr/artverse-be/internal/metrics"
	"github.com/isdelr/artverse-be/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EventNewDirectMessage is the realtime event carrying a freshly sent message.
const EventNewDirectMessage = "new-direct-message"

const maxMessageLength = 5000

// DirectMessageServiceProvider defines the interface for direct messaging.
type DirectMessageServiceProvider interface {
	Send(ctx context.Context, senderID, receiverID, content string) (models.DirectMessageView, error)
	ListConversation(ctx context.Context, userID, otherID string) ([]models.DirectMessageView, error)
}

// DirectMessageService persists one-to-one messages and pushes them to the
// live sessions of both participants.
type DirectMessageService struct {
	db        *gorm.DB
	users     UserServiceProvider
	emitter   Emitter
	publisher Publisher
}

// NewDirectMessageService creates a new DirectMessageService. publisher may be nil.
func NewDirectMessageService(db *gorm.DB, users UserServiceProvider, emitter Emitter, publisher Publisher) *DirectMessageService {
	return &DirectMessageService{db: db, users: users, emitter: emitter, publisher: publisher}
}

// Send stores a message from senderID to receiverID and emits it to every
// session of both users. senderID must be the authenticated caller.
func (s *DirectMessageService) Send(ctx context.Context, senderID, receiverID, content string) (models.DirectMessageView, error) {
	if strings.TrimSpace(content) == "" {
		return models.DirectMessageView{}, fmt.Errorf("%w: message content is required", ErrValidation)
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return models.DirectMessageView{}, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, maxMessageLength)
	}
	if !validID(receiverID) {
		return models.DirectMessageView{}, fmt.Errorf("%w: invalid receiver id", ErrValidation)
	}

	names, err := s.users.GetUsernames(ctx, []string{senderID, receiverID})
	if err != nil {
		return models.DirectMessageView{}, err
	}
	if _, ok := names[receiverID]; !ok {
		return models.DirectMessageView{}, fmt.Errorf("%w: receiver %s", ErrNotFound, receiverID)
	}

	msg := models.DirectMessage{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return models.DirectMessageView{}, fmt.Errorf("failed to store message: %w", err)
	}
	metrics.DirectMessagesTotal.Inc()

	view := toView(msg, names)
	s.emitter.EmitToUser(senderID, EventNewDirectMessage, view)
	if receiverID != senderID {
		s.emitter.EmitToUser(receiverID, EventNewDirectMessage, view)
	}
	log.Debug().Str("message_id", msg.ID).Str("sender_id", senderID).Str("receiver_id", receiverID).Msg("Direct message sent")

	publish(s.publisher, "direct_message.created", view)
	return view, nil
}

// ListConversation returns every message exchanged between userID and
// otherID in either direction, oldest first.
func (s *DirectMessageService) ListConversation(ctx context.Context, userID, otherID string) ([]models.DirectMessageView, error) {
	if !validID(otherID) {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	var msgs []models.DirectMessage
	err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userID, otherID, otherID, userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	names, err := s.users.GetUsernames(ctx, []string{userID, otherID})
	if err != nil {
		return nil, err
	}
	if _, ok := names[otherID]; !ok {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, otherID)
	}

	out := make([]models.DirectMessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toView(m, names))
	}
	return out, nil
}

func toView(m models.DirectMessage, names map[string]string) models.DirectMessageView {
	return models.DirectMessageView{
		ID:        m.ID,
		Sender:    models.Participant{ID: m.SenderID, Username: names[m.SenderID]},
		Receiver:  models.Participant{ID: m.ReceiverID, Username: names[m.ReceiverID]},
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Read:      m.Read,
	}
}
