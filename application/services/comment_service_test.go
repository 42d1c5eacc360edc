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

func newCommentFixture() (*PostService, *CommentService) {
	gw := memory.NewGateway()
	logger := zap.NewNop()
	posts := NewPostService(
		dynamodb.NewPostRepository(gw, logger),
		dynamodb.NewLikeRepository(gw),
		dynamodb.NewCascadeDeleter(gw, logger),
		nil,
		logger,
	)
	comments := NewCommentService(dynamodb.NewCommentRepository(gw, logger), logger)
	return posts, comments
}

func TestCommentServiceCreateAndList(t *testing.T) {
	ctx := context.Background()
	posts, comments := newCommentFixture()

	post, err := posts.CreatePost(ctx, "alice", sampleFields("MOVIE"))
	require.NoError(t, err)

	created, err := comments.CreateComment(ctx, post.ID, "bob", "nice list")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, post.ID, created.PostID)
	assert.Equal(t, "bob", created.Username)
	assert.Equal(t, "nice list", created.Content)

	listed, err := comments.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestCommentServiceCreateOnMissingPost(t *testing.T) {
	_, comments := newCommentFixture()

	_, err := comments.CreateComment(context.Background(), "missing", "bob", "hello?")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCommentServiceDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	posts, comments := newCommentFixture()

	post, err := posts.CreatePost(ctx, "alice", sampleFields("MOVIE"))
	require.NoError(t, err)
	created, err := comments.CreateComment(ctx, post.ID, "bob", "nice list")
	require.NoError(t, err)

	t.Run("non-author is rejected", func(t *testing.T) {
		err := comments.DeleteComment(ctx, post.ID, created.ID, "alice")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

		listed, err := comments.ListComments(ctx, post.ID)
		require.NoError(t, err)
		assert.Len(t, listed, 1)
	})

	t.Run("author deletes", func(t *testing.T) {
		require.NoError(t, comments.DeleteComment(ctx, post.ID, created.ID, "bob"))

		listed, err := comments.ListComments(ctx, post.ID)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("already gone", func(t *testing.T) {
		err := comments.DeleteComment(ctx, post.ID, created.ID, "bob")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
