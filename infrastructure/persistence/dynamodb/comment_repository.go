package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/domain/core/entities"
	"mugenreco-backend/infrastructure/persistence/abstractions"
	"mugenreco-backend/infrastructure/persistence/schema"
)

// commentItem is the stored shape of a comment. Comments live in their
// post's partition so a cascade delete sweeps them with the post.
type commentItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	CommentID string `dynamodbav:"comment_id"`
	Content   string `dynamodbav:"content"`
	UserID    string `dynamodbav:"user_id"`
	CreatedAt string `dynamodbav:"created_at"`
}

// CommentRepository implements ports.CommentRepository on the single-table
// store.
type CommentRepository struct {
	gateway abstractions.Gateway
	logger  *zap.Logger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(gateway abstractions.Gateway, logger *zap.Logger) *CommentRepository {
	return &CommentRepository{
		gateway: gateway,
		logger:  logger,
	}
}

// Create stores a comment after checking its post still exists. The check
// and the write are separate operations, so a comment can land on a post
// that is being deleted concurrently; the orphan is swept if the post's
// partition is cascade-deleted again.
func (r *CommentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	meta, err := r.gateway.Get(ctx, abstractions.Key{PK: schema.PostPK(comment.PostID), SK: schema.MetaSK})
	if err != nil {
		return err
	}
	if meta == nil {
		return apperrors.NewNotFoundError("post")
	}

	stored := commentItem{
		PK:        schema.PostPK(comment.PostID),
		SK:        schema.CommentSK(comment.ID),
		CommentID: comment.ID,
		Content:   comment.Content,
		UserID:    schema.UserRef(comment.Username),
		CreatedAt: schema.FormatTime(comment.CreatedAt),
	}
	item, err := attributevalue.MarshalMap(stored)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal comment").WithCause(err)
	}
	return r.gateway.Put(ctx, item, false)
}

// Find retrieves a single comment.
func (r *CommentRepository) Find(ctx context.Context, postID, commentID string) (*entities.Comment, error) {
	item, err := r.gateway.Get(ctx, abstractions.Key{
		PK: schema.PostPK(postID),
		SK: schema.CommentSK(commentID),
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NewNotFoundError("comment")
	}
	return unmarshalComment(item)
}

// ListByPost retrieves all comments on a post in insertion UUID order.
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*entities.Comment, error) {
	page, err := r.gateway.Query(ctx, abstractions.Query{
		Index:          schema.Primary,
		PartitionValue: schema.PostPK(postID),
		SortPrefix:     schema.CommentPrefix,
		ScanForward:    true,
	})
	if err != nil {
		return nil, err
	}

	comments := make([]*entities.Comment, 0, len(page.Items))
	for _, item := range page.Items {
		comment, err := unmarshalComment(item)
		if err != nil {
			// a corrupt row must not take the whole thread down
			r.logger.Warn("skipping undecodable comment",
				zap.String("post_id", postID),
				zap.String("pk", itemPK(item)),
				zap.Error(err),
			)
			continue
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// Delete removes a comment and returns it, or a not found error when no such
// comment exists.
func (r *CommentRepository) Delete(ctx context.Context, postID, commentID string) (*entities.Comment, error) {
	old, err := r.gateway.Delete(ctx, abstractions.Key{
		PK: schema.PostPK(postID),
		SK: schema.CommentSK(commentID),
	})
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, apperrors.NewNotFoundError("comment")
	}
	return unmarshalComment(old)
}

func unmarshalComment(item abstractions.Item) (*entities.Comment, error) {
	var stored commentItem
	if err := attributevalue.UnmarshalMap(item, &stored); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal comment").WithCause(err)
	}

	postID, ok := schema.PostIDFromPK(stored.PK)
	if !ok {
		return nil, apperrors.NewIntegrityError(fmt.Sprintf("malformed comment key %q", stored.PK))
	}
	username, ok := schema.UsernameFromRef(stored.UserID)
	if !ok {
		return nil, apperrors.NewIntegrityError(fmt.Sprintf("malformed comment author %q", stored.UserID))
	}
	createdAt, err := schema.ParseTime(stored.CreatedAt)
	if err != nil {
		return nil, apperrors.NewIntegrityError(fmt.Sprintf("malformed comment timestamp %q", stored.CreatedAt))
	}

	return &entities.Comment{
		ID:        stored.CommentID,
		PostID:    postID,
		Username:  username,
		Content:   stored.Content,
		CreatedAt: createdAt,
	}, nil
}
