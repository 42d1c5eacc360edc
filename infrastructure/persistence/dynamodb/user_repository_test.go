package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/domain/core/entities"
	"mugenreco-backend/infrastructure/persistence/abstractions"
	"mugenreco-backend/infrastructure/persistence/memory"
	"mugenreco-backend/infrastructure/persistence/schema"
)

func testUser(id, username string) *entities.User {
	return &entities.User{
		ID:           id,
		Username:     username,
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestUserRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	gw := memory.NewGateway()
	repo := NewUserRepository(gw, zap.NewNop())

	require.NoError(t, repo.Create(ctx, testUser("u-1", "alice")))

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-1", found.ID)
	assert.Equal(t, "alice", found.Username)
	assert.Equal(t, "$2a$10$hash", found.PasswordHash)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), found.CreatedAt)

	// guard item plus profile item
	assert.Equal(t, 2, gw.Len())
}

func TestUserRepositoryDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	gw := memory.NewGateway()
	repo := NewUserRepository(gw, zap.NewNop())

	require.NoError(t, repo.Create(ctx, testUser("u-1", "alice")))

	err := repo.Create(ctx, testUser("u-2", "alice"))
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// the original profile is untouched
	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-1", found.ID)
}

func TestUserRepositoryFindMissing(t *testing.T) {
	repo := NewUserRepository(memory.NewGateway(), zap.NewNop())

	_, err := repo.FindByUsername(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserRepositoryPartialWrite(t *testing.T) {
	ctx := context.Background()
	gw := memory.NewGateway()
	repo := NewUserRepository(gw, zap.NewNop())

	// fail the profile write but let the guard through
	boom := errors.New("store down")
	gw.FailPut = func(item abstractions.Item, ifNotExists bool) error {
		if !ifNotExists {
			return boom
		}
		return nil
	}

	err := repo.Create(ctx, testUser("u-1", "alice"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypePartialWrite, appErr.Type)

	// the username stays claimed by the half-finished signup
	gw.FailPut = nil
	err = repo.Create(ctx, testUser("u-2", "alice"))
	assert.True(t, apperrors.IsConflict(err))
}

func TestUserRepositoryDuplicateProfilesDetected(t *testing.T) {
	ctx := context.Background()
	gw := memory.NewGateway()
	repo := NewUserRepository(gw, zap.NewNop())

	// two profiles claiming the same username, as if written by a buggy
	// migration
	for _, id := range []string{"u-1", "u-2"} {
		item := abstractions.Item{
			"PK":         &types.AttributeValueMemberS{Value: schema.UserPK(id)},
			"SK":         &types.AttributeValueMemberS{Value: schema.MetaSK},
			"username":   &types.AttributeValueMemberS{Value: "alice"},
			"password":   &types.AttributeValueMemberS{Value: "x"},
			"created_at": &types.AttributeValueMemberS{Value: schema.FormatTime(time.Now().UTC())},
			"GSI4_PK":    &types.AttributeValueMemberS{Value: schema.UsernameLookupPK("alice")},
			"GSI4_SK":    &types.AttributeValueMemberS{Value: schema.ProfileSK},
		}
		require.NoError(t, gw.Put(ctx, item, false))
	}

	_, err := repo.FindByUsername(ctx, "alice")
	require.Error(t, err)
	assert.True(t, apperrors.IsIntegrity(err))
}
