package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/infrastructure/persistence/abstractions"
	"mugenreco-backend/infrastructure/persistence/schema"
)

// notExistsCondition guards a Put against overwriting an existing item. PK
// and SK always exist together, but checking both mirrors the table schema.
const notExistsCondition = "attribute_not_exists(PK) AND attribute_not_exists(SK)"

// batchRetries bounds re-submission of unprocessed batch entries before the
// call is reported as failed.
const batchRetries = 3

// Gateway implements abstractions.Gateway against DynamoDB. It is stateless
// and safe for concurrent use; the client is shared process-wide.
type Gateway struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewGateway creates a new DynamoDB gateway
func NewGateway(client *dynamodb.Client, tableName string, logger *zap.Logger) *Gateway {
	return &Gateway{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Get returns the item at key, or nil when absent.
func (g *Gateway) Get(ctx context.Context, key abstractions.Key) (abstractions.Item, error) {
	out, err := g.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(g.tableName),
		Key:       primaryKey(key),
	})
	if err != nil {
		return nil, g.classify("GetItem", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return out.Item, nil
}

// Put writes item, optionally guarded against overwriting an existing item.
func (g *Gateway) Put(ctx context.Context, item abstractions.Item, ifNotExists bool) error {
	input := &dynamodb.PutItemInput{
		TableName: aws.String(g.tableName),
		Item:      item,
	}
	if ifNotExists {
		input.ConditionExpression = aws.String(notExistsCondition)
	}

	if _, err := g.client.PutItem(ctx, input); err != nil {
		return g.classify("PutItem", err)
	}
	return nil
}

// Delete removes the item at key, returning the old item or nil when nothing
// existed.
func (g *Gateway) Delete(ctx context.Context, key abstractions.Key) (abstractions.Item, error) {
	out, err := g.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(g.tableName),
		Key:          primaryKey(key),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, g.classify("DeleteItem", err)
	}
	if out.Attributes == nil {
		return nil, nil
	}
	return out.Attributes, nil
}

// Query returns one page of items from a partition.
func (g *Gateway) Query(ctx context.Context, q abstractions.Query) (abstractions.Page, error) {
	input, err := g.buildQueryInput(q)
	if err != nil {
		return abstractions.Page{}, err
	}
	if q.Limit > 0 {
		input.Limit = aws.Int32(q.Limit)
	}
	if q.StartKey != nil {
		input.ExclusiveStartKey = q.StartKey
	}

	out, err := g.client.Query(ctx, input)
	if err != nil {
		return abstractions.Page{}, g.classify("Query", err)
	}

	return abstractions.Page{Items: out.Items, LastKey: out.LastEvaluatedKey}, nil
}

// Count returns the number of items a query matches, following result pages
// so partitions larger than one page count correctly.
func (g *Gateway) Count(ctx context.Context, q abstractions.Query) (int, error) {
	input, err := g.buildQueryInput(q)
	if err != nil {
		return 0, err
	}
	input.Select = types.SelectCount

	total := 0
	for {
		out, err := g.client.Query(ctx, input)
		if err != nil {
			return 0, g.classify("Query", err)
		}
		total += int(out.Count)
		if out.LastEvaluatedKey == nil {
			return total, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// BatchGet fetches up to MaxBatchKeys items by key, re-submitting unprocessed
// keys a bounded number of times.
func (g *Gateway) BatchGet(ctx context.Context, keys []abstractions.Key) ([]abstractions.Item, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	if len(keys) > abstractions.MaxBatchKeys {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("batch get limited to %d keys, got %d", abstractions.MaxBatchKeys, len(keys)))
	}

	request := make([]map[string]types.AttributeValue, 0, len(keys))
	for _, key := range keys {
		request = append(request, primaryKey(key))
	}

	items := make([]abstractions.Item, 0, len(keys))
	for attempt := 0; len(request) > 0; attempt++ {
		if attempt > batchRetries {
			return items, apperrors.NewUnavailableError("dynamodb").
				WithCause(fmt.Errorf("%d keys unprocessed after %d attempts", len(request), attempt))
		}

		out, err := g.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				g.tableName: {Keys: request},
			},
		})
		if err != nil {
			return items, g.classify("BatchGetItem", err)
		}

		items = append(items, out.Responses[g.tableName]...)
		request = out.UnprocessedKeys[g.tableName].Keys
	}

	return items, nil
}

// BatchDelete removes up to MaxBatchKeys items, re-submitting unprocessed
// entries a bounded number of times. Absent keys delete as no-ops.
func (g *Gateway) BatchDelete(ctx context.Context, keys []abstractions.Key) error {
	if len(keys) == 0 {
		return nil
	}
	if len(keys) > abstractions.MaxBatchKeys {
		return apperrors.NewValidationError(
			fmt.Sprintf("batch delete limited to %d keys, got %d", abstractions.MaxBatchKeys, len(keys)))
	}

	requests := make([]types.WriteRequest, 0, len(keys))
	for _, key := range keys {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: primaryKey(key)},
		})
	}

	for attempt := 0; len(requests) > 0; attempt++ {
		if attempt > batchRetries {
			return apperrors.NewUnavailableError("dynamodb").
				WithCause(fmt.Errorf("%d deletes unprocessed after %d attempts", len(requests), attempt))
		}

		out, err := g.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				g.tableName: requests,
			},
		})
		if err != nil {
			return g.classify("BatchWriteItem", err)
		}

		requests = out.UnprocessedItems[g.tableName]
	}

	return nil
}

// buildQueryInput assembles the key-condition expression for a query.
func (g *Gateway) buildQueryInput(q abstractions.Query) (*dynamodb.QueryInput, error) {
	cond := expression.Key(q.Index.PartitionKey).Equal(expression.Value(q.PartitionValue))
	if q.SortPrefix != "" {
		cond = cond.And(expression.Key(q.Index.SortKey).BeginsWith(q.SortPrefix))
	}

	expr, err := expression.NewBuilder().WithKeyCondition(cond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("BuildExpression", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(g.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(q.ScanForward),
	}
	if q.Index.Name != "" {
		input.IndexName = aws.String(q.Index.Name)
	}
	return input, nil
}

// classify maps SDK failures onto the error taxonomy: conditional violations
// become ErrConditionFailed, throttling and temporary outages become
// retryable Unavailable errors, everything else is a non-retryable database
// error. Context cancellation passes through untouched.
func (g *Gateway) classify(operation string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return abstractions.ErrConditionFailed
	}

	var (
		throttled    *types.ProvisionedThroughputExceededException
		requestLimit *types.RequestLimitExceeded
		internal     *types.InternalServerError
	)
	if errors.As(err, &throttled) || errors.As(err, &requestLimit) || errors.As(err, &internal) {
		g.logger.Warn("DynamoDB transient failure",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return apperrors.NewUnavailableError("dynamodb").WithCause(err)
	}

	g.logger.Error("DynamoDB operation failed",
		zap.String("operation", operation),
		zap.Error(err),
	)
	return apperrors.NewDatabaseError(operation, err)
}

// primaryKey converts a Key into the stored attribute map.
func primaryKey(key abstractions.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		schema.Primary.PartitionKey: &types.AttributeValueMemberS{Value: key.PK},
		schema.Primary.SortKey:      &types.AttributeValueMemberS{Value: key.SK},
	}
}
