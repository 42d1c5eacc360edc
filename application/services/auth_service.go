package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mugenreco-backend/pkg/auth"
	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/application/ports"
	"mugenreco-backend/domain/core/entities"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// AuthService handles signup and credential verification. Token issuance
// stays at the transport layer; this service only deals in users.
type AuthService struct {
	users  ports.UserRepository
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users ports.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		logger: logger,
	}
}

// Register creates a new user with a hashed password. The username is
// claimed atomically, so a duplicate signup reports a conflict.
func (s *AuthService) Register(ctx context.Context, username, password string) (*entities.User, error) {
	if len(password) < MinPasswordLength {
		return nil, apperrors.NewValidationError("password too short")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("username", username))
	return user, nil
}

// Login verifies credentials and returns the user. A missing user and a
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorizedError("invalid username or password")
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, apperrors.NewUnauthorizedError("invalid username or password")
	}
	return user, nil
}

// GetProfile returns a user's public profile.
func (s *AuthService) GetProfile(ctx context.Context, username string) (*entities.User, error) {
	return s.users.FindByUsername(ctx, username)
}
