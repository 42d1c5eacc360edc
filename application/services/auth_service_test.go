package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/infrastructure/persistence/dynamodb"
	"mugenreco-backend/infrastructure/persistence/memory"
)

func newAuthService() *AuthService {
	logger := zap.NewNop()
	return NewAuthService(dynamodb.NewUserRepository(memory.NewGateway(), logger), logger)
}

func TestAuthServiceRegister(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	user, err := svc.Register(ctx, "alice", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "hunter22", user.PasswordHash)
	assert.False(t, user.CreatedAt.IsZero())

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "different")
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(ctx, "bob", "tiny")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	_, err := svc.Register(ctx, "alice", "hunter22")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(ctx, "alice", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrong-pass")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	})

	t.Run("unknown username", func(t *testing.T) {
		// same error as a wrong password so the response does not leak
		// which usernames exist
		_, err := svc.Login(ctx, "nobody", "hunter22")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	})
}

func TestAuthServiceGetProfile(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService()

	_, err := svc.Register(ctx, "alice", "hunter22")
	require.NoError(t, err)

	user, err := svc.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.GetProfile(ctx, "nobody")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
