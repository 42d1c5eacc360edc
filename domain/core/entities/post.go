package entities

import "time"

// Post is a "best three" recommendation post. A post always carries exactly
// three recommendation entries; Description is optional.
type Post struct {
	ID          string
	Username    string
	Category    string
	Title       string
	Description string
	Recommend1  string
	Recommend2  string
	Recommend3  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostFields carries the caller-supplied fields for creating or updating a
// post. Identity, author and timestamps are assigned by the repository.
type PostFields struct {
	Category    string
	Title       string
	Description string
	Recommend1  string
	Recommend2  string
	Recommend3  string
}
