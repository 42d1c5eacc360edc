package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/infrastructure/persistence/abstractions"
	"mugenreco-backend/infrastructure/persistence/schema"
)

// CascadeDeleter removes a post's whole partition: the post, its comments,
// and its likes. There is no transaction fencing across batches; a failure
// mid-way leaves a partially deleted partition and is reported as such so
// the caller can retry the cascade.
type CascadeDeleter struct {
	gateway abstractions.Gateway
	logger  *zap.Logger
}

// NewCascadeDeleter creates a new cascade deleter
func NewCascadeDeleter(gateway abstractions.Gateway, logger *zap.Logger) *CascadeDeleter {
	return &CascadeDeleter{
		gateway: gateway,
		logger:  logger,
	}
}

// DeletePostTree collects every key in the post's partition and deletes them
// in batches, returning how many items were removed. An empty partition
// means the post does not exist.
func (d *CascadeDeleter) DeletePostTree(ctx context.Context, postID string) (int, error) {
	keys, err := d.collectKeys(ctx, postID)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, apperrors.NewNotFoundError("post")
	}

	deleted := 0
	for start := 0; start < len(keys); start += abstractions.MaxBatchKeys {
		end := start + abstractions.MaxBatchKeys
		if end > len(keys) {
			end = len(keys)
		}

		if err := d.gateway.BatchDelete(ctx, keys[start:end]); err != nil {
			remaining := len(keys) - deleted
			d.logger.Error("post cascade delete interrupted",
				zap.String("post_id", postID),
				zap.Int("deleted", deleted),
				zap.Int("remaining", remaining),
				zap.Error(err),
			)
			return deleted, apperrors.NewPartialDeleteError("DeletePostTree", deleted, remaining, err)
		}
		deleted += end - start
	}

	d.logger.Info("post cascade delete completed",
		zap.String("post_id", postID),
		zap.Int("items", deleted),
	)
	return deleted, nil
}

func (d *CascadeDeleter) collectKeys(ctx context.Context, postID string) ([]abstractions.Key, error) {
	var keys []abstractions.Key
	var startKey abstractions.Item
	for {
		page, err := d.gateway.Query(ctx, abstractions.Query{
			Index:          schema.Primary,
			PartitionValue: schema.PostPK(postID),
			ScanForward:    true,
			StartKey:       startKey,
		})
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			pk, okPK := item[schema.Primary.PartitionKey].(*types.AttributeValueMemberS)
			sk, okSK := item[schema.Primary.SortKey].(*types.AttributeValueMemberS)
			if !okPK || !okSK {
				return nil, apperrors.NewIntegrityError("item missing string primary key")
			}
			keys = append(keys, abstractions.Key{PK: pk.Value, SK: sk.Value})
		}

		if page.LastKey == nil {
			return keys, nil
		}
		startKey = page.LastKey
	}
}
