package events

import "time"

// Post Events

// PostCreated is raised after a post and its index projections are written.
type PostCreated struct {
	BaseEvent
	PostID   string `json:"post_id"`
	Username string `json:"username"`
	Category string `json:"category"`
}

// NewPostCreated creates a PostCreated event
func NewPostCreated(postID, username, category string, timestamp time.Time) PostCreated {
	return PostCreated{
		BaseEvent: BaseEvent{
			AggregateID: postID,
			EventType:   "post.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		PostID:   postID,
		Username: username,
		Category: category,
	}
}

// PostUpdated is raised after a post's fields and projections are rewritten.
type PostUpdated struct {
	BaseEvent
	PostID   string `json:"post_id"`
	Username string `json:"username"`
	Category string `json:"category"`
}

// NewPostUpdated creates a PostUpdated event
func NewPostUpdated(postID, username, category string, timestamp time.Time) PostUpdated {
	return PostUpdated{
		BaseEvent: BaseEvent{
			AggregateID: postID,
			EventType:   "post.updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		PostID:   postID,
		Username: username,
		Category: category,
	}
}

// PostDeleted is raised after a post and all of its comments and likes have
// been removed by the cascading delete.
type PostDeleted struct {
	BaseEvent
	PostID       string `json:"post_id"`
	ItemsDeleted int    `json:"items_deleted"`
}

// NewPostDeleted creates a PostDeleted event
func NewPostDeleted(postID string, itemsDeleted int, timestamp time.Time) PostDeleted {
	return PostDeleted{
		BaseEvent: BaseEvent{
			AggregateID: postID,
			EventType:   "post.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		PostID:       postID,
		ItemsDeleted: itemsDeleted,
	}
}
