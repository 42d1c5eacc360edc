// Package abstractions declares the narrow store-gateway contract shared by
// the DynamoDB implementation and the in-memory implementation used for local
// runs and tests. All repositories speak to the table through this interface
// only.
package abstractions

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"mugenreco-backend/infrastructure/persistence/schema"
)

// Item is a raw table item as stored.
type Item = map[string]types.AttributeValue

// Key addresses one item by the table's primary key pair.
type Key struct {
	PK string
	SK string
}

// MaxBatchKeys is the store's hard limit on keys per batch write/get call.
// Callers with larger sets must chunk.
const MaxBatchKeys = 25

// ErrConditionFailed is returned by Put when a conditional write's predicate
// does not hold. It is the sole concurrency-control signal the store offers
// and is distinct from any transport failure.
var ErrConditionFailed = errors.New("conditional write failed")

// Query describes one partition query, on the primary key or a secondary
// index. Limit <= 0 means no page limit. StartKey resumes a prior page and
// must be the LastKey of that page, unchanged.
type Query struct {
	Index          schema.Index
	PartitionValue string
	SortPrefix     string
	ScanForward    bool
	Limit          int32
	StartKey       Item
}

// Page is one page of query results. LastKey is nil when no further pages
// exist.
type Page struct {
	Items   []Item
	LastKey Item
}

// Gateway is the only component that performs store I/O. Implementations
// classify failures: conditional violations surface as ErrConditionFailed,
// throttling and temporary outages as retryable Unavailable errors, and
// malformed requests as non-retryable Database errors. Every call honors
// ctx cancellation.
type Gateway interface {
	// Get returns the item at key, or nil when absent.
	Get(ctx context.Context, key Key) (Item, error)

	// Put writes item. With ifNotExists set, the write succeeds only when no
	// item exists at the same primary key, failing with ErrConditionFailed
	// otherwise.
	Put(ctx context.Context, item Item, ifNotExists bool) error

	// Delete removes the item at key and returns the old item, or nil when
	// nothing existed. Deleting an absent key is not an error.
	Delete(ctx context.Context, key Key) (Item, error)

	// Query returns one page of items from a partition.
	Query(ctx context.Context, q Query) (Page, error)

	// Count returns the number of items a query matches without transferring
	// the items themselves.
	Count(ctx context.Context, q Query) (int, error)

	// BatchGet fetches up to MaxBatchKeys items by key. Absent keys are
	// silently omitted from the result.
	BatchGet(ctx context.Context, keys []Key) ([]Item, error)

	// BatchDelete removes up to MaxBatchKeys items. Absent keys are no-ops.
	BatchDelete(ctx context.Context, keys []Key) error
}
