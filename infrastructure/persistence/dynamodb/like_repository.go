package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/domain/core/entities"
	"mugenreco-backend/infrastructure/persistence/abstractions"
	"mugenreco-backend/infrastructure/persistence/schema"
)

// likeItem is the stored shape of a like. The sort key carries the username,
// making (post, user) naturally unique, while the GSI5 attributes project the
// like into the per-user liked feed.
type likeItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	PostID    string `dynamodbav:"post_id"`
	UserID    string `dynamodbav:"user_id"`
	CreatedAt string `dynamodbav:"created_at"`
	GSI5PK    string `dynamodbav:"GSI5_PK"`
	GSI5SK    string `dynamodbav:"GSI5_SK"`
}

// LikeRepository implements ports.LikeRepository on the single-table store.
type LikeRepository struct {
	gateway abstractions.Gateway
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(gateway abstractions.Gateway) *LikeRepository {
	return &LikeRepository{gateway: gateway}
}

// Add records a like. The write is conditional on the like not existing, so
// double-liking reports a conflict instead of silently rewriting created_at.
func (r *LikeRepository) Add(ctx context.Context, like *entities.Like) error {
	stored := likeItem{
		PK:        schema.PostPK(like.PostID),
		SK:        schema.LikeSK(like.Username),
		PostID:    like.PostID,
		UserID:    schema.UserRef(like.Username),
		CreatedAt: schema.FormatTime(like.CreatedAt),
		GSI5PK:    schema.UserFeedPK(like.Username),
		GSI5SK:    schema.FeedSK(like.CreatedAt, like.PostID),
	}
	item, err := attributevalue.MarshalMap(stored)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal like").WithCause(err)
	}

	if err := r.gateway.Put(ctx, item, true); err != nil {
		if errors.Is(err, abstractions.ErrConditionFailed) {
			return apperrors.NewConflictError("post already liked")
		}
		return err
	}
	return nil
}

// Remove deletes a like, reporting not found when none exists.
func (r *LikeRepository) Remove(ctx context.Context, postID, username string) error {
	old, err := r.gateway.Delete(ctx, abstractions.Key{
		PK: schema.PostPK(postID),
		SK: schema.LikeSK(username),
	})
	if err != nil {
		return err
	}
	if old == nil {
		return apperrors.NewNotFoundError("like")
	}
	return nil
}

// Count returns how many likes a post has, counted server-side.
func (r *LikeRepository) Count(ctx context.Context, postID string) (int, error) {
	return r.gateway.Count(ctx, abstractions.Query{
		Index:          schema.Primary,
		PartitionValue: schema.PostPK(postID),
		SortPrefix:     schema.LikePrefix,
		ScanForward:    true,
	})
}

// Status reports whether a user has liked a post.
func (r *LikeRepository) Status(ctx context.Context, postID, username string) (bool, error) {
	item, err := r.gateway.Get(ctx, abstractions.Key{
		PK: schema.PostPK(postID),
		SK: schema.LikeSK(username),
	})
	if err != nil {
		return false, err
	}
	return item != nil, nil
}
