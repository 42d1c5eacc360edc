package ports

import (
	"context"

	"mugenreco-backend/domain/core/entities"
	"mugenreco-backend/domain/events"
)

// PageOptions control cursor pagination for feed queries.
type PageOptions struct {
	// Limit caps how many posts one page returns. Zero means the store
	// default.
	Limit int32

	// Cursor is an opaque continuation token from a previous page, or
	// empty for the first page.
	Cursor string
}

// PostPage is one page of a post feed in newest-first order.
type PostPage struct {
	Posts []*entities.Post

	// NextCursor continues the feed from after the last post. Empty means
	// the feed is exhausted.
	NextCursor string
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create persists a new user, failing if the username is taken
	Create(ctx context.Context, user *entities.User) error

	// FindByUsername retrieves a user by username
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
}

// PostRepository defines the interface for post persistence
type PostRepository interface {
	// Create persists a new post
	Create(ctx context.Context, post *entities.Post) error

	// FindByID retrieves a post by its ID
	FindByID(ctx context.Context, id string) (*entities.Post, error)

	// Update overwrites a post's stored state
	Update(ctx context.Context, post *entities.Post) error

	// ListAll pages through every post, newest first
	ListAll(ctx context.Context, opts PageOptions) (*PostPage, error)

	// ListByCategory pages through a category's posts, newest first
	ListByCategory(ctx context.Context, category string, opts PageOptions) (*PostPage, error)

	// ListByUser pages through a user's posts, newest first
	ListByUser(ctx context.Context, username string, opts PageOptions) (*PostPage, error)

	// ListLikedBy pages through the posts a user liked, most recently
	// liked first
	ListLikedBy(ctx context.Context, username string, opts PageOptions) (*PostPage, error)
}

// CommentRepository defines the interface for comment persistence
type CommentRepository interface {
	// Create persists a new comment on an existing post
	Create(ctx context.Context, comment *entities.Comment) error

	// Find retrieves a single comment
	Find(ctx context.Context, postID, commentID string) (*entities.Comment, error)

	// ListByPost retrieves all comments on a post, oldest first
	ListByPost(ctx context.Context, postID string) ([]*entities.Comment, error)

	// Delete removes a comment, returning the removed comment
	Delete(ctx context.Context, postID, commentID string) (*entities.Comment, error)
}

// LikeRepository defines the interface for like persistence
type LikeRepository interface {
	// Add records a like, failing if the user already liked the post
	Add(ctx context.Context, like *entities.Like) error

	// Remove deletes a like, failing if none exists
	Remove(ctx context.Context, postID, username string) error

	// Count returns how many likes a post has
	Count(ctx context.Context, postID string) (int, error)

	// Status reports whether a user has liked a post
	Status(ctx context.Context, postID, username string) (bool, error)
}

// CategoryRepository defines the interface for the category catalog
type CategoryRepository interface {
	// Create registers a category
	Create(ctx context.Context, category *entities.Category) error

	// List retrieves all categories ordered by ID
	List(ctx context.Context) ([]*entities.Category, error)
}

// CascadeDeleter removes a post together with its comments and likes.
type CascadeDeleter interface {
	// DeletePostTree removes every item in a post's partition and returns
	// how many items were deleted
	DeletePostTree(ctx context.Context, postID string) (int, error)
}

// EventBus publishes domain events to interested consumers.
type EventBus interface {
	// Publish sends events to the bus
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
