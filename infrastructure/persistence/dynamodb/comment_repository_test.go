package dynamodb

import (
	"context"
	"fmt"
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

func testComment(id, postID, username string, at time.Time) *entities.Comment {
	return &entities.Comment{
		ID:        id,
		PostID:    postID,
		Username:  username,
		Content:   "comment " + id,
		CreatedAt: at,
	}
}

func TestCommentRepositoryCreateRequiresPost(t *testing.T) {
	ctx := context.Background()
	gw := memory.NewGateway()
	repo := NewCommentRepository(gw, zap.NewNop())

	err := repo.Create(ctx, testComment("c-1", "missing-post", "bob", time.Now().UTC()))
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 0, gw.Len())
}

func TestCommentRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	gw := memory.NewGateway()
	posts := NewPostRepository(gw, zap.NewNop())
	repo := NewCommentRepository(gw, zap.NewNop())

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, posts.Create(ctx, testPost("p-1", "alice", "MOVIE", at)))

	comment := testComment("c-1", "p-1", "bob", at.Add(time.Minute))
	require.NoError(t, repo.Create(ctx, comment))

	found, err := repo.Find(ctx, "p-1", "c-1")
	require.NoError(t, err)
	assert.Equal(t, comment, found)

	_, err = repo.Find(ctx, "p-1", "c-404")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCommentRepositoryListInKeyOrder(t *testing.T) {
	ctx := context.Background()
	gw := memory.NewGateway()
	posts := NewPostRepository(gw, zap.NewNop())
	repo := NewCommentRepository(gw, zap.NewNop())

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, posts.Create(ctx, testPost("p-1", "alice", "MOVIE", at)))

	for i := 0; i < 3; i++ {
		c := testComment(fmt.Sprintf("c-%d", i), "p-1", "bob", at.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Create(ctx, c))
	}

	listed, err := repo.ListByPost(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, listed, 3)

	// comment IDs sort the partition, not timestamps, so assert the IDs
	// come back in SK order
	assert.Equal(t, "c-0", listed[0].ID)
	assert.Equal(t, "c-1", listed[1].ID)
	assert.Equal(t, "c-2", listed[2].ID)
}

func TestCommentRepositoryListSkipsCorruptRows(t *testing.T) {
	ctx := context.Background()
	gw := memory.NewGateway()
	posts := NewPostRepository(gw, zap.NewNop())
	repo := NewCommentRepository(gw, zap.NewNop())

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, posts.Create(ctx, testPost("p-1", "alice", "MOVIE", at)))
	require.NoError(t, repo.Create(ctx, testComment("c-good", "p-1", "bob", at)))

	// a comment row with a mangled timestamp in the same partition
	require.NoError(t, gw.Put(ctx, abstractions.Item{
		"PK":         &types.AttributeValueMemberS{Value: schema.PostPK("p-1")},
		"SK":         &types.AttributeValueMemberS{Value: schema.CommentSK("c-bad")},
		"comment_id": &types.AttributeValueMemberS{Value: "c-bad"},
		"content":    &types.AttributeValueMemberS{Value: "broken"},
		"user_id":    &types.AttributeValueMemberS{Value: schema.UserRef("bob")},
		"created_at": &types.AttributeValueMemberS{Value: "not-a-time"},
	}, false))

	listed, err := repo.ListByPost(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "c-good", listed[0].ID)
}

func TestCommentRepositoryListMissingPostIsEmpty(t *testing.T) {
	repo := NewCommentRepository(memory.NewGateway(), zap.NewNop())

	listed, err := repo.ListByPost(context.Background(), "missing-post")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCommentRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	gw := memory.NewGateway()
	posts := NewPostRepository(gw, zap.NewNop())
	repo := NewCommentRepository(gw, zap.NewNop())

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, posts.Create(ctx, testPost("p-1", "alice", "MOVIE", at)))
	require.NoError(t, repo.Create(ctx, testComment("c-1", "p-1", "bob", at)))

	deleted, err := repo.Delete(ctx, "p-1", "c-1")
	require.NoError(t, err)
	assert.Equal(t, "bob", deleted.Username)
	assert.Equal(t, "comment c-1", deleted.Content)

	_, err = repo.Delete(ctx, "p-1", "c-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
