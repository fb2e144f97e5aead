package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/isdelr/artverse-be/internal/auth"
	"github.com/isdelr/artverse-be/internal/models"
	"gorm.io/gorm"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(ctx context.Context, username, email, password string, role models.Role) (models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUsernames(ctx context.Context, ids []string) (map[string]string, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUser creates a new user, hashing their password.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string, role models.Role) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if role == "" {
		role = models.RoleArtist
	}

	if username == "" || len(password) < 6 {
		return models.User{}, fmt.Errorf("%w: username and a password of at least 6 characters are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if role != models.RoleClient && role != models.RoleArtist {
		return models.User{}, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return models.User{}, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	if !validID(id) {
		return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	var user models.User
	err := s.db.WithContext(ctx).Omit("password_hash").First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// GetUsernames resolves display names for a batch of user ids. Unknown ids
// are absent from the result.
func (s *UserService) GetUsernames(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Select("id", "username").Where("id IN ?", unique).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve usernames: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u.Username
	}
	return out, nil
}
