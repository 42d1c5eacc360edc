package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/application/ports"
	"mugenreco-backend/domain/core/entities"
	"mugenreco-backend/domain/events"
)

// PostDetail is a post enriched with its like information for the viewer.
type PostDetail struct {
	*entities.Post
	LikeCount int
	Liked     bool
}

// PostFeed is one page of enriched posts.
type PostFeed struct {
	Posts      []*PostDetail
	NextCursor string
}

// PostService orchestrates post reads and writes: feed enrichment with like
// information, author-only updates, and cascading deletes.
type PostService struct {
	posts   ports.PostRepository
	likes   ports.LikeRepository
	cascade ports.CascadeDeleter
	bus     ports.EventBus
	logger  *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(
	posts ports.PostRepository,
	likes ports.LikeRepository,
	cascade ports.CascadeDeleter,
	bus ports.EventBus,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		posts:   posts,
		likes:   likes,
		cascade: cascade,
		bus:     bus,
		logger:  logger,
	}
}

// CreatePost stores a new post authored by username.
func (s *PostService) CreatePost(ctx context.Context, username string, fields entities.PostFields) (*PostDetail, error) {
	now := time.Now().UTC()
	post := &entities.Post{
		ID:          uuid.NewString(),
		Username:    username,
		Category:    fields.Category,
		Title:       fields.Title,
		Description: fields.Description,
		Recommend1:  fields.Recommend1,
		Recommend2:  fields.Recommend2,
		Recommend3:  fields.Recommend3,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewPostCreated(post.ID, post.Username, post.Category, now))
	return &PostDetail{Post: post}, nil
}

// GetPost retrieves one post with its like information. viewer may be empty
// for anonymous reads; then Liked is always false.
func (s *PostService) GetPost(ctx context.Context, id, viewer string) (*PostDetail, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, post, viewer), nil
}

// UpdatePost replaces a post's editable fields. Only the author may update;
// created_at and authorship survive the rewrite.
func (s *PostService) UpdatePost(ctx context.Context, id, actor string, fields entities.PostFields) (*PostDetail, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Username != actor {
		return nil, apperrors.NewForbiddenError("not authorized to modify this post")
	}

	post.Category = fields.Category
	post.Title = fields.Title
	post.Description = fields.Description
	post.Recommend1 = fields.Recommend1
	post.Recommend2 = fields.Recommend2
	post.Recommend3 = fields.Recommend3
	post.UpdatedAt = time.Now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewPostUpdated(post.ID, post.Username, post.Category, post.UpdatedAt))
	return s.enrich(ctx, post, actor), nil
}

// DeletePost removes a post together with its comments and likes, returning
// how many items the cascade deleted. Only the author may delete.
func (s *PostService) DeletePost(ctx context.Context, id, actor string) (int, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if post.Username != actor {
		return 0, apperrors.NewForbiddenError("not authorized to delete this post")
	}

	deleted, err := s.cascade.DeletePostTree(ctx, id)
	if err != nil {
		return deleted, err
	}

	s.publish(ctx, events.NewPostDeleted(id, deleted, time.Now().UTC()))
	return deleted, nil
}

// ListPosts pages through the global feed.
func (s *PostService) ListPosts(ctx context.Context, viewer string, opts ports.PageOptions) (*PostFeed, error) {
	page, err := s.posts.ListAll(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s.enrichPage(ctx, page, viewer), nil
}

// ListPostsByCategory pages through one category's feed.
func (s *PostService) ListPostsByCategory(ctx context.Context, category, viewer string, opts ports.PageOptions) (*PostFeed, error) {
	page, err := s.posts.ListByCategory(ctx, category, opts)
	if err != nil {
		return nil, err
	}
	return s.enrichPage(ctx, page, viewer), nil
}

// ListPostsByUser pages through one author's own posts.
func (s *PostService) ListPostsByUser(ctx context.Context, username string, opts ports.PageOptions) (*PostFeed, error) {
	page, err := s.posts.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, err
	}
	return s.enrichPage(ctx, page, username), nil
}

// ListLikedPosts pages through the posts a user liked, most recent first.
func (s *PostService) ListLikedPosts(ctx context.Context, username string, opts ports.PageOptions) (*PostFeed, error) {
	page, err := s.posts.ListLikedBy(ctx, username, opts)
	if err != nil {
		return nil, err
	}
	return s.enrichPage(ctx, page, username), nil
}

// enrich attaches like information to a post. Enrichment is best effort: a
// failing like lookup downgrades to zero values rather than failing the read.
func (s *PostService) enrich(ctx context.Context, post *entities.Post, viewer string) *PostDetail {
	detail := &PostDetail{Post: post}

	count, err := s.likes.Count(ctx, post.ID)
	if err != nil {
		s.logger.Warn("like count lookup failed",
			zap.String("post_id", post.ID),
			zap.Error(err),
		)
		return detail
	}
	detail.LikeCount = count

	if viewer != "" {
		liked, err := s.likes.Status(ctx, post.ID, viewer)
		if err != nil {
			s.logger.Warn("like status lookup failed",
				zap.String("post_id", post.ID),
				zap.String("username", viewer),
				zap.Error(err),
			)
			return detail
		}
		detail.Liked = liked
	}
	return detail
}

func (s *PostService) enrichPage(ctx context.Context, page *ports.PostPage, viewer string) *PostFeed {
	feed := &PostFeed{
		Posts:      make([]*PostDetail, 0, len(page.Posts)),
		NextCursor: page.NextCursor,
	}
	for _, post := range page.Posts {
		feed.Posts = append(feed.Posts, s.enrich(ctx, post, viewer))
	}
	return feed
}

// publish sends a domain event without blocking the caller's result. Event
// delivery is best effort; a failed publish is logged and swallowed.
func (s *PostService) publish(ctx context.Context, event events.DomainEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}
