package entities

import "time"

// Comment belongs to a post and shares its partition. Comments have no edit
// flow, so there is no UpdatedAt.
type Comment struct {
	ID        string
	PostID    string
	Username  string
	Content   string
	CreatedAt time.Time
}
