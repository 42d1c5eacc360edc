package entities

import "time"

// Like marks that a user liked a post. At most one like exists per
// (post, username) pair; the pair is the like's identity.
type Like struct {
	PostID    string
	Username  string
	CreatedAt time.Time
}
