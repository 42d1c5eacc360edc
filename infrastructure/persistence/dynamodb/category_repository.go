package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/domain/core/entities"
	"mugenreco-backend/infrastructure/persistence/abstractions"
	"mugenreco-backend/infrastructure/persistence/schema"
)

// categoryItem is the stored shape of a catalog entry. The GSI1 attributes
// gather every category under one catalog partition so listing is a query,
// not a table scan. The catalog partition is disjoint from the POST#ALL feed.
type categoryItem struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	Name   string `dynamodbav:"name"`
	GSI1PK string `dynamodbav:"GSI1_PK"`
	GSI1SK string `dynamodbav:"GSI1_SK"`
}

// CategoryRepository implements ports.CategoryRepository on the single-table
// store.
type CategoryRepository struct {
	gateway abstractions.Gateway
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(gateway abstractions.Gateway) *CategoryRepository {
	return &CategoryRepository{gateway: gateway}
}

// Create registers a category. Re-registering an existing ID overwrites its
// display name, which is how seeding stays idempotent.
func (r *CategoryRepository) Create(ctx context.Context, category *entities.Category) error {
	stored := categoryItem{
		PK:     schema.CategoryPK(category.ID),
		SK:     schema.MetaSK,
		Name:   category.Name,
		GSI1PK: schema.AllCategoriesPK,
		GSI1SK: category.ID,
	}
	item, err := attributevalue.MarshalMap(stored)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal category").WithCause(err)
	}
	return r.gateway.Put(ctx, item, false)
}

// List retrieves the whole catalog ordered by category ID.
func (r *CategoryRepository) List(ctx context.Context) ([]*entities.Category, error) {
	categories := make([]*entities.Category, 0)
	var startKey abstractions.Item
	for {
		page, err := r.gateway.Query(ctx, abstractions.Query{
			Index:          schema.IndexPostList,
			PartitionValue: schema.AllCategoriesPK,
			ScanForward:    true,
			StartKey:       startKey,
		})
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			var stored categoryItem
			if err := attributevalue.UnmarshalMap(item, &stored); err != nil {
				return nil, apperrors.NewInternalError("failed to unmarshal category").WithCause(err)
			}
			id, ok := schema.CategoryIDFromPK(stored.PK)
			if !ok {
				return nil, apperrors.NewIntegrityError(fmt.Sprintf("malformed category key %q", stored.PK))
			}
			categories = append(categories, &entities.Category{ID: id, Name: stored.Name})
		}

		if page.LastKey == nil {
			break
		}
		startKey = page.LastKey
	}

	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}
