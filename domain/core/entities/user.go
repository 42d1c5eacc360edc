package entities

import "time"

// User is a registered account. Username is unique across the table;
// uniqueness is enforced by a conditional write at creation time, never by a
// read-then-write check. Users are never deleted.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
