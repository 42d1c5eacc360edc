package dynamodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/domain/core/entities"
	"mugenreco-backend/infrastructure/persistence/memory"
)

func TestLikeRepositoryAddRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewLikeRepository(memory.NewGateway())

	like := &entities.Like{PostID: "p-1", Username: "bob", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Add(ctx, like))

	t.Run("duplicate add conflicts", func(t *testing.T) {
		err := repo.Add(ctx, like)
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("status and count", func(t *testing.T) {
		liked, err := repo.Status(ctx, "p-1", "bob")
		require.NoError(t, err)
		assert.True(t, liked)

		liked, err = repo.Status(ctx, "p-1", "carol")
		require.NoError(t, err)
		assert.False(t, liked)

		n, err := repo.Count(ctx, "p-1")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, repo.Remove(ctx, "p-1", "bob"))

		n, err := repo.Count(ctx, "p-1")
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		err = repo.Remove(ctx, "p-1", "bob")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestLikeRepositoryCountManyUsers(t *testing.T) {
	ctx := context.Background()
	repo := NewLikeRepository(memory.NewGateway())

	at := time.Now().UTC()
	for i := 0; i < 30; i++ {
		like := &entities.Like{PostID: "p-1", Username: fmt.Sprintf("user-%02d", i), CreatedAt: at}
		require.NoError(t, repo.Add(ctx, like))
	}
	require.NoError(t, repo.Add(ctx, &entities.Like{PostID: "p-2", Username: "user-00", CreatedAt: at}))

	n, err := repo.Count(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 30, n)
}
