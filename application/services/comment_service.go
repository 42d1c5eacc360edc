package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/application/ports"
	"mugenreco-backend/domain/core/entities"
)

// CommentService handles comments on posts.
type CommentService struct {
	comments ports.CommentRepository
	logger   *zap.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(comments ports.CommentRepository, logger *zap.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		logger:   logger,
	}
}

// CreateComment adds a comment to an existing post.
func (s *CommentService) CreateComment(ctx context.Context, postID, username, content string) (*entities.Comment, error) {
	comment := &entities.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		Username:  username,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns all comments on a post. A post without comments and a
// missing post both list as empty.
func (s *CommentService) ListComments(ctx context.Context, postID string) ([]*entities.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, postID, commentID, actor string) error {
	comment, err := s.comments.Find(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if comment.Username != actor {
		s.logger.Warn("denied comment delete",
			zap.String("post_id", postID),
			zap.String("comment_id", commentID),
			zap.String("username", actor),
		)
		return apperrors.NewForbiddenError("not authorized to delete this comment")
	}

	if _, err := s.comments.Delete(ctx, postID, commentID); err != nil {
		return err
	}
	return nil
}
