package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/domain/core/entities"
	"mugenreco-backend/infrastructure/persistence/abstractions"
	"mugenreco-backend/infrastructure/persistence/memory"
)

func TestCascadeDeletePostTree(t *testing.T) {
	ctx := context.Background()
	gw := memory.NewGateway()
	posts := NewPostRepository(gw, zap.NewNop())
	comments := NewCommentRepository(gw, zap.NewNop())
	likes := NewLikeRepository(gw)
	cascade := NewCascadeDeleter(gw, zap.NewNop())

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, posts.Create(ctx, testPost("p-1", "alice", "MOVIE", at)))
	require.NoError(t, posts.Create(ctx, testPost("p-2", "alice", "MOVIE", at.Add(time.Minute))))
	require.NoError(t, comments.Create(ctx, testComment("c-1", "p-1", "bob", at)))
	require.NoError(t, comments.Create(ctx, testComment("c-2", "p-1", "carol", at)))
	require.NoError(t, likes.Add(ctx, &entities.Like{PostID: "p-1", Username: "bob", CreatedAt: at}))

	deleted, err := cascade.DeletePostTree(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 4, deleted)

	_, err = posts.FindByID(ctx, "p-1")
	assert.True(t, apperrors.IsNotFound(err))

	listed, err := comments.ListByPost(ctx, "p-1")
	require.NoError(t, err)
	assert.Empty(t, listed)

	n, err := likes.Count(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// the sibling post is untouched
	_, err = posts.FindByID(ctx, "p-2")
	assert.NoError(t, err)
}

func TestCascadeDeleteMissingPost(t *testing.T) {
	cascade := NewCascadeDeleter(memory.NewGateway(), zap.NewNop())

	_, err := cascade.DeletePostTree(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCascadeDeleteSpansBatches(t *testing.T) {
	ctx := context.Background()
	gw := memory.NewGateway()
	posts := NewPostRepository(gw, zap.NewNop())
	likes := NewLikeRepository(gw)
	cascade := NewCascadeDeleter(gw, zap.NewNop())

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, posts.Create(ctx, testPost("p-1", "alice", "MOVIE", at)))
	for i := 0; i < 30; i++ {
		like := &entities.Like{PostID: "p-1", Username: fmt.Sprintf("user-%02d", i), CreatedAt: at}
		require.NoError(t, likes.Add(ctx, like))
	}

	deleted, err := cascade.DeletePostTree(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 31, deleted)
	assert.Equal(t, 0, gw.Len())
}

func TestCascadeDeletePartialFailure(t *testing.T) {
	ctx := context.Background()
	gw := memory.NewGateway()
	posts := NewPostRepository(gw, zap.NewNop())
	likes := NewLikeRepository(gw)
	cascade := NewCascadeDeleter(gw, zap.NewNop())

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, posts.Create(ctx, testPost("p-1", "alice", "MOVIE", at)))
	for i := 0; i < 30; i++ {
		like := &entities.Like{PostID: "p-1", Username: fmt.Sprintf("user-%02d", i), CreatedAt: at}
		require.NoError(t, likes.Add(ctx, like))
	}

	// first batch lands, second batch fails
	calls := 0
	gw.FailBatchDelete = func(keys []abstractions.Key) error {
		calls++
		if calls > 1 {
			return errors.New("store down")
		}
		return nil
	}

	_, err := cascade.DeletePostTree(ctx, "p-1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypePartialDelete, appErr.Type)

	// the first 25 items are gone, the rest remain
	assert.Equal(t, 6, gw.Len())
}
