// Package schema owns the single-table key layout: every partition key, sort
// key and secondary-index projection used by the repositories is built and
// parsed here, and only here. Repositories must never assemble a key inline —
// a projection written through any other path is a schema bug.
//
// The prefix scheme is part of the stored contract; changing any prefix or
// index key is a breaking migration and would need explicit versioning.
package schema

import (
	"fmt"
	"strings"
	"time"
)

// Entity key prefixes.
const (
	UserPrefix     = "USER#"
	PostPrefix     = "POST#"
	CommentPrefix  = "COMMENT#"
	LikePrefix     = "LIKE#"
	CategoryPrefix = "CATEGORY#"
	UsernamePrefix = "USERNAME#"
)

// Fixed sort-key values.
const (
	MetaSK    = "META"
	ProfileSK = "PROFILE"
)

// AllPostsPK is the single partition of the global post feed index.
const AllPostsPK = "POST#ALL"

// AllCategoriesPK is the partition the category catalog projects into on the
// post-list index. Prefixes keep it disjoint from the POST#ALL feed.
const AllCategoriesPK = "CATEGORY#ALL"

// TimeLayout formats timestamps embedded in feed sort keys. Fixed-width
// microseconds keep lexicographic order equal to chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// FormatTime renders t in the sort-key timestamp layout (always UTC).
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a sort-key timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// Index identifies a queryable key pair: the table's primary key or one of
// the five global secondary indexes.
type Index struct {
	Name         string // empty for the primary key
	PartitionKey string
	SortKey      string
}

var (
	// Primary is the table's own (PK, SK) pair.
	Primary = Index{Name: "", PartitionKey: "PK", SortKey: "SK"}
	// IndexPostList serves the reverse-chronological global feed and, under
	// a separate partition, the category catalog.
	IndexPostList = Index{Name: "GSI_PostList", PartitionKey: "GSI1_PK", SortKey: "GSI1_SK"}
	// IndexCategory serves the per-category feed.
	IndexCategory = Index{Name: "GSI_Category", PartitionKey: "GSI2_PK", SortKey: "GSI2_SK"}
	// IndexUserPosts serves the per-author feed.
	IndexUserPosts = Index{Name: "GSI_UserPosts", PartitionKey: "GSI3_PK", SortKey: "GSI3_SK"}
	// IndexUsername serves the username point lookup.
	IndexUsername = Index{Name: "GSI_Username", PartitionKey: "GSI4_PK", SortKey: "GSI4_SK"}
	// IndexUserLikes serves the posts-a-user-liked feed.
	IndexUserLikes = Index{Name: "GSI_UserLikes", PartitionKey: "GSI5_PK", SortKey: "GSI5_SK"}
)

// Indexes lists every secondary index, in table-definition order.
var Indexes = []Index{IndexPostList, IndexCategory, IndexUserPosts, IndexUsername, IndexUserLikes}

// Primary-key construction.

func UserPK(userID string) string         { return UserPrefix + userID }
func PostPK(postID string) string         { return PostPrefix + postID }
func CategoryPK(categoryID string) string { return CategoryPrefix + categoryID }
func CommentSK(commentID string) string   { return CommentPrefix + commentID }
func LikeSK(username string) string       { return LikePrefix + username }

// UsernameLookupPK keys the uniqueness guard item and the username-lookup
// projection for one username.
func UsernameLookupPK(username string) string { return UsernamePrefix + username }

// UserRef is the stored user reference attribute value ("USER#<username>").
// Post, comment and like items reference their author this way.
func UserRef(username string) string { return UserPrefix + username }

// FeedPartitionPK values for the per-category and per-author feeds.

func CategoryFeedPK(category string) string { return CategoryPrefix + category }
func UserFeedPK(username string) string     { return UserPrefix + username }

// FeedSK builds the "<created_at>#<post_id>" sort key shared by the three
// post feeds and the user-likes feed.
func FeedSK(createdAt time.Time, postID string) string {
	return FormatTime(createdAt) + "#" + postID
}

// Key parsing. Every field written into a key must be recoverable; parsers
// report ok=false on a value that does not carry the expected prefix.

// PostIDFromPK recovers the post id from a "POST#<id>" partition key.
func PostIDFromPK(pk string) (string, bool) {
	return cutPrefix(pk, PostPrefix)
}

// UserIDFromPK recovers the user id from a "USER#<id>" partition key.
func UserIDFromPK(pk string) (string, bool) {
	return cutPrefix(pk, UserPrefix)
}

// UsernameFromRef recovers the username from a "USER#<username>" reference
// attribute.
func UsernameFromRef(ref string) (string, bool) {
	return cutPrefix(ref, UserPrefix)
}

// UsernameFromLookupPK recovers the username from a "USERNAME#<name>" key.
func UsernameFromLookupPK(pk string) (string, bool) {
	return cutPrefix(pk, UsernamePrefix)
}

// CommentIDFromSK recovers the comment id from a "COMMENT#<id>" sort key.
func CommentIDFromSK(sk string) (string, bool) {
	return cutPrefix(sk, CommentPrefix)
}

// LikeUsernameFromSK recovers the liker's username from a "LIKE#<username>"
// sort key.
func LikeUsernameFromSK(sk string) (string, bool) {
	return cutPrefix(sk, LikePrefix)
}

// CategoryIDFromPK recovers the category id from a "CATEGORY#<id>" key.
func CategoryIDFromPK(pk string) (string, bool) {
	return cutPrefix(pk, CategoryPrefix)
}

// SplitFeedSK splits a "<created_at>#<post_id>" feed sort key back into its
// parts. The timestamp layout contains no '#', so the first separator is
// unambiguous.
func SplitFeedSK(sk string) (createdAt string, postID string, ok bool) {
	createdAt, postID, ok = strings.Cut(sk, "#")
	if !ok || createdAt == "" || postID == "" {
		return "", "", false
	}
	return createdAt, postID, true
}

func cutPrefix(s, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}

// IsChildSK reports whether a sort key belongs to a child item (comment or
// like) rather than the META item itself.
func IsChildSK(sk string) bool {
	return strings.HasPrefix(sk, CommentPrefix) || strings.HasPrefix(sk, LikePrefix)
}

// String implements fmt.Stringer for diagnostics.
func (i Index) String() string {
	if i.Name == "" {
		return fmt.Sprintf("primary(%s,%s)", i.PartitionKey, i.SortKey)
	}
	return fmt.Sprintf("%s(%s,%s)", i.Name, i.PartitionKey, i.SortKey)
}
