package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/application/ports"
	"mugenreco-backend/domain/core/entities"
)

// LikeToggleResult reports the outcome of a like toggle.
type LikeToggleResult struct {
	PostID    string
	Liked     bool
	LikeCount int
}

// LikeService handles likes on posts.
type LikeService struct {
	likes  ports.LikeRepository
	posts  ports.PostRepository
	logger *zap.Logger
}

// NewLikeService creates a new like service
func NewLikeService(likes ports.LikeRepository, posts ports.PostRepository, logger *zap.Logger) *LikeService {
	return &LikeService{
		likes:  likes,
		posts:  posts,
		logger: logger,
	}
}

// Like records a like on an existing post. Liking twice is a conflict.
func (s *LikeService) Like(ctx context.Context, postID, username string) error {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return err
	}
	return s.likes.Add(ctx, &entities.Like{
		PostID:    postID,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	})
}

// Unlike removes the caller's like from a post.
func (s *LikeService) Unlike(ctx context.Context, postID, username string) error {
	return s.likes.Remove(ctx, postID, username)
}

// Toggle flips the caller's like and returns the resulting state with the
// post's like count.
func (s *LikeService) Toggle(ctx context.Context, postID, username string) (*LikeToggleResult, error) {
	liked, err := s.likes.Status(ctx, postID, username)
	if err != nil {
		return nil, err
	}

	if liked {
		err = s.Unlike(ctx, postID, username)
	} else {
		err = s.Like(ctx, postID, username)
	}
	if err != nil {
		// a concurrent toggle can race this one; surface the conflict
		if apperrors.IsConflict(err) || apperrors.IsNotFound(err) {
			s.logger.Warn("like toggle raced",
				zap.String("post_id", postID),
				zap.String("username", username),
				zap.Error(err),
			)
		}
		return nil, err
	}

	count, err := s.likes.Count(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeToggleResult{PostID: postID, Liked: !liked, LikeCount: count}, nil
}

// Status reports whether the caller has liked a post.
func (s *LikeService) Status(ctx context.Context, postID, username string) (bool, error) {
	return s.likes.Status(ctx, postID, username)
}

// Count returns a post's like count.
func (s *LikeService) Count(ctx context.Context, postID string) (int, error) {
	return s.likes.Count(ctx, postID)
}
