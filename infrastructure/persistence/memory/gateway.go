// Package memory provides an in-memory Gateway used by tests and local
// development. It mimics the single-table store closely enough to exercise
// index projections, conditional writes, and cursor pagination.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"mugenreco-backend/infrastructure/persistence/abstractions"
	"mugenreco-backend/infrastructure/persistence/schema"
)

// Gateway is a mutex-protected map of items keyed by primary key. Items
// appear in an index view only when they carry both of that index's
// attributes, matching how sparse global secondary indexes behave.
type Gateway struct {
	mu    sync.RWMutex
	items map[abstractions.Key]abstractions.Item

	// Failure hooks let tests inject store errors. A nil hook never fires.
	FailPut         func(item abstractions.Item, ifNotExists bool) error
	FailQuery       func(q abstractions.Query) error
	FailBatchGet    func(keys []abstractions.Key) error
	FailBatchDelete func(keys []abstractions.Key) error
}

// NewGateway creates an empty in-memory gateway
func NewGateway() *Gateway {
	return &Gateway{items: make(map[abstractions.Key]abstractions.Item)}
}

// Len reports how many items the store holds.
func (g *Gateway) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.items)
}

func (g *Gateway) Get(ctx context.Context, key abstractions.Key) (abstractions.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	item, ok := g.items[key]
	if !ok {
		return nil, nil
	}
	return copyItem(item), nil
}

func (g *Gateway) Put(ctx context.Context, item abstractions.Item, ifNotExists bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.FailPut != nil {
		if err := g.FailPut(item, ifNotExists); err != nil {
			return err
		}
	}

	key, ok := primaryKeyOf(item)
	if !ok {
		return abstractions.ErrConditionFailed
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if ifNotExists {
		if _, exists := g.items[key]; exists {
			return abstractions.ErrConditionFailed
		}
	}
	g.items[key] = copyItem(item)
	return nil
}

func (g *Gateway) Delete(ctx context.Context, key abstractions.Key) (abstractions.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	old, ok := g.items[key]
	if !ok {
		return nil, nil
	}
	delete(g.items, key)
	return old, nil
}

func (g *Gateway) Query(ctx context.Context, q abstractions.Query) (abstractions.Page, error) {
	if err := ctx.Err(); err != nil {
		return abstractions.Page{}, err
	}
	if g.FailQuery != nil {
		if err := g.FailQuery(q); err != nil {
			return abstractions.Page{}, err
		}
	}

	matches := g.match(q)

	start := 0
	if q.StartKey != nil {
		startPrimary, ok := primaryKeyOf(q.StartKey)
		if !ok {
			return abstractions.Page{}, abstractions.ErrConditionFailed
		}
		for i, m := range matches {
			if m.primary == startPrimary {
				start = i + 1
				break
			}
		}
	}
	matches = matches[start:]

	limit := len(matches)
	if q.Limit > 0 && int(q.Limit) < limit {
		limit = int(q.Limit)
	}

	page := abstractions.Page{Items: make([]abstractions.Item, 0, limit)}
	for _, m := range matches[:limit] {
		page.Items = append(page.Items, copyItem(m.item))
	}
	if limit < len(matches) && limit > 0 {
		last := matches[limit-1]
		page.LastKey = abstractions.Item{
			schema.Primary.PartitionKey: &types.AttributeValueMemberS{Value: last.primary.PK},
			schema.Primary.SortKey:      &types.AttributeValueMemberS{Value: last.primary.SK},
		}
		if q.Index.Name != "" {
			page.LastKey[q.Index.PartitionKey] = &types.AttributeValueMemberS{Value: q.PartitionValue}
			page.LastKey[q.Index.SortKey] = &types.AttributeValueMemberS{Value: last.sortValue}
		}
	}
	return page, nil
}

func (g *Gateway) Count(ctx context.Context, q abstractions.Query) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if g.FailQuery != nil {
		if err := g.FailQuery(q); err != nil {
			return 0, err
		}
	}
	return len(g.match(q)), nil
}

func (g *Gateway) BatchGet(ctx context.Context, keys []abstractions.Key) ([]abstractions.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.FailBatchGet != nil {
		if err := g.FailBatchGet(keys); err != nil {
			return nil, err
		}
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	items := make([]abstractions.Item, 0, len(keys))
	for _, key := range keys {
		if item, ok := g.items[key]; ok {
			items = append(items, copyItem(item))
		}
	}
	return items, nil
}

func (g *Gateway) BatchDelete(ctx context.Context, keys []abstractions.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.FailBatchDelete != nil {
		if err := g.FailBatchDelete(keys); err != nil {
			return err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, key := range keys {
		delete(g.items, key)
	}
	return nil
}

type match struct {
	primary   abstractions.Key
	sortValue string
	item      abstractions.Item
}

// match returns the query's full result set in sort-key order.
func (g *Gateway) match(q abstractions.Query) []match {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var matches []match
	for primary, item := range g.items {
		pk, ok := stringAttr(item, q.Index.PartitionKey)
		if !ok || pk != q.PartitionValue {
			continue
		}
		sk, ok := stringAttr(item, q.Index.SortKey)
		if !ok {
			continue
		}
		if q.SortPrefix != "" && !strings.HasPrefix(sk, q.SortPrefix) {
			continue
		}
		matches = append(matches, match{primary: primary, sortValue: sk, item: item})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].sortValue != matches[j].sortValue {
			return matches[i].sortValue < matches[j].sortValue
		}
		return matches[i].primary.PK < matches[j].primary.PK
	})
	if !q.ScanForward {
		for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
			matches[i], matches[j] = matches[j], matches[i]
		}
	}
	return matches
}

func primaryKeyOf(item abstractions.Item) (abstractions.Key, bool) {
	pk, okPK := stringAttr(item, schema.Primary.PartitionKey)
	sk, okSK := stringAttr(item, schema.Primary.SortKey)
	if !okPK || !okSK {
		return abstractions.Key{}, false
	}
	return abstractions.Key{PK: pk, SK: sk}, true
}

func stringAttr(item abstractions.Item, name string) (string, bool) {
	s, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func copyItem(item abstractions.Item) abstractions.Item {
	dup := make(abstractions.Item, len(item))
	for k, v := range item {
		dup[k] = v
	}
	return dup
}
