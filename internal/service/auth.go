package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hearthplan/backend/internal/models"
)

// SessionTTL is the inactivity window after which a session expires.
const SessionTTL = 7 * 24 * time.Hour

const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register creates a new user. Role defaults to parent when empty.
func (s *AuthService) Register(ctx context.Context, email, password, name, role string) (*models.User, error) {
	if role == "" {
		role = models.RoleParent
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: email %s is taken", ErrConflict, email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         name,
		Role:         role,
		Preferences:  models.JSONBMap{},
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Authenticate verifies credentials. It fails closed: malformed input,
// unknown emails and hash mismatches all return (nil, nil), never an error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if !emailPattern.MatchString(email) || password == "" {
		return nil, nil
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return &user, nil
}

// CreateSession issues a new opaque session token for the user.
func (s *AuthService) CreateSession(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Data:      models.JSONBMap{},
		ExpiresAt: time.Now().Add(SessionTTL),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// ResolveSession maps a session token back to its active user. Unknown or
// expired tokens and inactive users resolve to (nil, nil). Resolving a
// session slides its expiry forward by the full inactivity window.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	var session models.Session
	err := s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("token = ?", token).
		Update("expires_at", time.Now().Add(SessionTTL)).Error; err != nil {
		log.Printf("[AuthService] failed to touch session expiry: %v", err)
	}

	return &user, nil
}

// DestroySession removes a session. Destroying an unknown token is a no-op.
func (s *AuthService) DestroySession(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", token).Error
}

// SweepSessions deletes expired sessions and returns how many were removed.
func (s *AuthService) SweepSessions(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Delete(&models.Session{}, "expires_at <= ?", time.Now())
	return result.RowsAffected, result.Error
}
