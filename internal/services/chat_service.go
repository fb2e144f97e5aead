package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/isdelr/artverse-be/internal/metrics"
	"github.com/isdelr/artverse-be/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventNewGroupMessage is the realtime event carrying a stored group message.
const EventNewGroupMessage = "new-message"

const (
	maxGroupNameLength = 100
	groupHistoryLimit  = 50
)

// ChatGroupInput holds the fields of a new chat group.
type ChatGroupInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description" validate:"required,max=1000"`
}

// ChatMessageInput holds a group message. Media is uploaded elsewhere; only
// its URL and kind are stored.
type ChatMessageInput struct {
	Content   string `json:"content"`
	MediaURL  string `json:"mediaUrl" validate:"omitempty,url"`
	MediaType string `json:"mediaType" validate:"omitempty,oneof=image video"`
}

// ChatGroupServiceProvider defines the interface for group chat.
type ChatGroupServiceProvider interface {
	CreateGroup(ctx context.Context, creatorID string, input ChatGroupInput) (models.ChatGroupView, error)
	ListGroups(ctx context.Context) ([]models.ChatGroupView, error)
	JoinGroup(ctx context.Context, userID, groupID string) (models.ChatGroupView, error)
	EnsureMember(ctx context.Context, userID, groupID string) error
	PostMessage(ctx context.Context, senderID, groupID string, input ChatMessageInput) (models.ChatMessageView, error)
	ListMessages(ctx context.Context, userID, groupID string) ([]models.ChatMessageView, error)
}

// ChatGroupService manages chat groups, their membership and their history.
type ChatGroupService struct {
	db      *gorm.DB
	users   UserServiceProvider
	emitter TopicEmitter
}

// NewChatGroupService creates a new ChatGroupService.
func NewChatGroupService(db *gorm.DB, users UserServiceProvider, emitter TopicEmitter) *ChatGroupService {
	return &ChatGroupService{db: db, users: users, emitter: emitter}
}

// CreateGroup creates a group with the creator as its first member and
// moderator.
func (s *ChatGroupService) CreateGroup(ctx context.Context, creatorID string, input ChatGroupInput) (models.ChatGroupView, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	category := models.GroupCategory(strings.ToLower(strings.TrimSpace(input.Category)))

	if name == "" || description == "" {
		return models.ChatGroupView{}, fmt.Errorf("%w: name and description are required", ErrValidation)
	}
	if utf8.RuneCountInString(name) > maxGroupNameLength {
		return models.ChatGroupView{}, fmt.Errorf("%w: name exceeds %d characters", ErrValidation, maxGroupNameLength)
	}
	if !models.IsValidGroupCategory(category) {
		return models.ChatGroupView{}, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ChatGroup{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
		return models.ChatGroupView{}, fmt.Errorf("failed to check group name: %w", err)
	}
	if count > 0 {
		return models.ChatGroupView{}, fmt.Errorf("%w: a group named %q already exists", ErrConflict, name)
	}

	group := models.ChatGroup{
		ID:          uuid.New().String(),
		Name:        name,
		Category:    category,
		Description: description,
		CreatedBy:   creatorID,
		CreatedAt:   time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		return tx.Create(&models.ChatGroupMember{GroupID: group.ID, UserID: creatorID, Moderator: true}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ChatGroupView{}, fmt.Errorf("%w: a group named %q already exists", ErrConflict, name)
	}
	if err != nil {
		return models.ChatGroupView{}, fmt.Errorf("failed to create group: %w", err)
	}
	log.Info().Str("group_id", group.ID).Str("user_id", creatorID).Msg("Chat group created")

	views, err := s.views(ctx, []models.ChatGroup{group})
	if err != nil {
		return models.ChatGroupView{}, err
	}
	return views[0], nil
}

// ListGroups returns every group, newest first.
func (s *ChatGroupService) ListGroups(ctx context.Context) ([]models.ChatGroupView, error) {
	var groups []models.ChatGroup
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return s.views(ctx, groups)
}

// JoinGroup adds userID to the group. Joining twice is a no-op.
func (s *ChatGroupService) JoinGroup(ctx context.Context, userID, groupID string) (models.ChatGroupView, error) {
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return models.ChatGroupView{}, err
	}

	member := models.ChatGroupMember{GroupID: group.ID, UserID: userID}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error; err != nil {
		return models.ChatGroupView{}, fmt.Errorf("failed to join group: %w", err)
	}

	views, err := s.views(ctx, []models.ChatGroup{group})
	if err != nil {
		return models.ChatGroupView{}, err
	}
	return views[0], nil
}

// EnsureMember returns nil when userID belongs to the group, ErrForbidden
// when it does not and ErrNotFound when the group does not exist.
func (s *ChatGroupService) EnsureMember(ctx context.Context, userID, groupID string) error {
	if !validID(groupID) {
		return fmt.Errorf("%w: invalid group id", ErrValidation)
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.ChatGroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return err
	}
	return fmt.Errorf("%w: join the group first", ErrForbidden)
}

// PostMessage stores a message from a group member and relays it to every
// session subscribed to the group.
func (s *ChatGroupService) PostMessage(ctx context.Context, senderID, groupID string, input ChatMessageInput) (models.ChatMessageView, error) {
	if strings.TrimSpace(input.Content) == "" {
		return models.ChatMessageView{}, fmt.Errorf("%w: message content is required", ErrValidation)
	}
	if utf8.RuneCountInString(input.Content) > maxMessageLength {
		return models.ChatMessageView{}, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, maxMessageLength)
	}
	if (input.MediaURL == "") != (input.MediaType == "") {
		return models.ChatMessageView{}, fmt.Errorf("%w: mediaUrl and mediaType go together", ErrValidation)
	}
	if input.MediaType != "" && input.MediaType != "image" && input.MediaType != "video" {
		return models.ChatMessageView{}, fmt.Errorf("%w: unknown media type %q", ErrValidation, input.MediaType)
	}
	if err := s.EnsureMember(ctx, senderID, groupID); err != nil {
		return models.ChatMessageView{}, err
	}

	msg := models.ChatMessage{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		SenderID:  senderID,
		Content:   input.Content,
		MediaURL:  input.MediaURL,
		MediaType: input.MediaType,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return models.ChatMessageView{}, fmt.Errorf("failed to store group message: %w", err)
	}
	metrics.GroupMessagesTotal.Inc()

	names, err := s.users.GetUsernames(ctx, []string{senderID})
	if err != nil {
		return models.ChatMessageView{}, err
	}
	view := toChatMessageView(msg, names)
	if s.emitter != nil {
		s.emitter.EmitToTopic(groupID, EventNewGroupMessage, view)
	}
	return view, nil
}

// ListMessages returns the latest messages of a group, oldest first. Only
// members may read the history.
func (s *ChatGroupService) ListMessages(ctx context.Context, userID, groupID string) ([]models.ChatMessageView, error) {
	if err := s.EnsureMember(ctx, userID, groupID); err != nil {
		return nil, err
	}

	var msgs []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(groupHistoryLimit).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load group messages: %w", err)
	}

	senders := make([]string, 0, len(msgs))
	for _, m := range msgs {
		senders = append(senders, m.SenderID)
	}
	names, err := s.users.GetUsernames(ctx, senders)
	if err != nil {
		return nil, err
	}

	out := make([]models.ChatMessageView, len(msgs))
	for i, m := range msgs {
		out[len(msgs)-1-i] = toChatMessageView(m, names)
	}
	return out, nil
}

func (s *ChatGroupService) findGroup(ctx context.Context, groupID string) (models.ChatGroup, error) {
	if !validID(groupID) {
		return models.ChatGroup{}, fmt.Errorf("%w: invalid group id", ErrValidation)
	}
	var group models.ChatGroup
	err := s.db.WithContext(ctx).First(&group, "id = ?", groupID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ChatGroup{}, fmt.Errorf("%w: group not found", ErrNotFound)
	}
	if err != nil {
		return models.ChatGroup{}, fmt.Errorf("failed to load group: %w", err)
	}
	return group, nil
}

// views resolves creators, members and moderators for a batch of groups.
func (s *ChatGroupService) views(ctx context.Context, groups []models.ChatGroup) ([]models.ChatGroupView, error) {
	out := make([]models.ChatGroupView, 0, len(groups))
	if len(groups) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(groups))
	userIDs := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
		userIDs = append(userIDs, g.CreatedBy)
	}

	var members []models.ChatGroupMember
	err := s.db.WithContext(ctx).
		Where("group_id IN ?", ids).
		Order("joined_at ASC").
		Order("user_id ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load group members: %w", err)
	}
	byGroup := make(map[string][]models.ChatGroupMember, len(groups))
	for _, m := range members {
		byGroup[m.GroupID] = append(byGroup[m.GroupID], m)
		userIDs = append(userIDs, m.UserID)
	}

	names, err := s.users.GetUsernames(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	for _, g := range groups {
		view := models.ChatGroupView{
			ID:          g.ID,
			Name:        g.Name,
			Category:    g.Category,
			Description: g.Description,
			CreatedBy:   models.Participant{ID: g.CreatedBy, Username: names[g.CreatedBy]},
			Members:     []models.Participant{},
			Moderators:  []models.Participant{},
			CreatedAt:   g.CreatedAt,
		}
		for _, m := range byGroup[g.ID] {
			p := models.Participant{ID: m.UserID, Username: names[m.UserID]}
			view.Members = append(view.Members, p)
			if m.Moderator {
				view.Moderators = append(view.Moderators, p)
			}
		}
		out = append(out, view)
	}
	return out, nil
}

func toChatMessageView(m models.ChatMessage, names map[string]string) models.ChatMessageView {
	return models.ChatMessageView{
		ID:        m.ID,
		GroupID:   m.GroupID,
		Sender:    models.Participant{ID: m.SenderID, Username: names[m.SenderID]},
		Content:   m.Content,
		MediaURL:  m.MediaURL,
		MediaType: m.MediaType,
		CreatedAt: m.CreatedAt,
	}
}
