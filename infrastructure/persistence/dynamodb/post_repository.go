package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/application/ports"
	"mugenreco-backend/domain/core/entities"
	"mugenreco-backend/infrastructure/persistence/abstractions"
	"mugenreco-backend/infrastructure/persistence/schema"
)

// defaultPageLimit is the feed page size when the caller does not set one.
const defaultPageLimit = 10

// postItem is the stored shape of a post. The GSI attributes project the post
// into the global, category, and author feeds; their sort keys are rebuilt
// from updated_at on every write so all three feeds order identically.
type postItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	UserID      string `dynamodbav:"user_id"`
	Category    string `dynamodbav:"category"`
	Title       string `dynamodbav:"title"`
	Description string `dynamodbav:"description"`
	Recommend1  string `dynamodbav:"recommend1"`
	Recommend2  string `dynamodbav:"recommend2"`
	Recommend3  string `dynamodbav:"recommend3"`
	CreatedAt   string `dynamodbav:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at"`
	GSI1PK      string `dynamodbav:"GSI1_PK"`
	GSI1SK      string `dynamodbav:"GSI1_SK"`
	GSI2PK      string `dynamodbav:"GSI2_PK"`
	GSI2SK      string `dynamodbav:"GSI2_SK"`
	GSI3PK      string `dynamodbav:"GSI3_PK"`
	GSI3SK      string `dynamodbav:"GSI3_SK"`
}

// likeFeedItem is the projection of a like read through the user-likes index.
type likeFeedItem struct {
	PostID string `dynamodbav:"post_id"`
}

// PostRepository implements ports.PostRepository on the single-table store.
type PostRepository struct {
	gateway abstractions.Gateway
	logger  *zap.Logger
}

// NewPostRepository creates a new post repository
func NewPostRepository(gateway abstractions.Gateway, logger *zap.Logger) *PostRepository {
	return &PostRepository{
		gateway: gateway,
		logger:  logger,
	}
}

// Create stores a post together with its feed projections in one write.
func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	item, err := marshalPost(post)
	if err != nil {
		return err
	}
	return r.gateway.Put(ctx, item, false)
}

// FindByID retrieves a single post.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*entities.Post, error) {
	item, err := r.gateway.Get(ctx, abstractions.Key{PK: schema.PostPK(id), SK: schema.MetaSK})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperrors.NewNotFoundError("post")
	}
	return unmarshalPost(item)
}

// Update overwrites the stored post. The feed sort keys move to the new
// updated_at, so edited posts resurface at the top of every feed.
func (r *PostRepository) Update(ctx context.Context, post *entities.Post) error {
	item, err := marshalPost(post)
	if err != nil {
		return err
	}
	return r.gateway.Put(ctx, item, false)
}

// ListAll pages through the global feed, newest first.
func (r *PostRepository) ListAll(ctx context.Context, opts ports.PageOptions) (*ports.PostPage, error) {
	return r.queryFeed(ctx, schema.IndexPostList, schema.AllPostsPK, opts)
}

// ListByCategory pages through one category's feed, newest first.
func (r *PostRepository) ListByCategory(ctx context.Context, category string, opts ports.PageOptions) (*ports.PostPage, error) {
	return r.queryFeed(ctx, schema.IndexCategory, schema.CategoryFeedPK(category), opts)
}

// ListByUser pages through one author's feed, newest first.
func (r *PostRepository) ListByUser(ctx context.Context, username string, opts ports.PageOptions) (*ports.PostPage, error) {
	return r.queryFeed(ctx, schema.IndexUserPosts, schema.UserFeedPK(username), opts)
}

// ListLikedBy pages through the posts a user liked, most recently liked
// first. The like index yields post IDs; the posts themselves come back in
// one batch read. Posts deleted since the like was recorded are skipped.
func (r *PostRepository) ListLikedBy(ctx context.Context, username string, opts ports.PageOptions) (*ports.PostPage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > abstractions.MaxBatchKeys {
		// one like page must fit a single batch read
		limit = abstractions.MaxBatchKeys
	}
	startKey, err := DecodeCursor(opts.Cursor)
	if err != nil {
		return nil, err
	}

	page, err := r.gateway.Query(ctx, abstractions.Query{
		Index:          schema.IndexUserLikes,
		PartitionValue: schema.UserFeedPK(username),
		ScanForward:    false,
		Limit:          limit,
		StartKey:       startKey,
	})
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return &ports.PostPage{Posts: []*entities.Post{}}, nil
	}

	keys := make([]abstractions.Key, 0, len(page.Items))
	order := make(map[string]int, len(page.Items))
	for i, item := range page.Items {
		var like likeFeedItem
		if err := attributevalue.UnmarshalMap(item, &like); err != nil || like.PostID == "" {
			r.logger.Warn("skipping undecodable like in liked feed",
				zap.String("username", username),
				zap.String("pk", itemPK(item)),
				zap.Error(err),
			)
			continue
		}
		keys = append(keys, abstractions.Key{PK: schema.PostPK(like.PostID), SK: schema.MetaSK})
		order[like.PostID] = i
	}

	items, err := r.gateway.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	posts := make([]*entities.Post, len(page.Items))
	found := 0
	for _, item := range items {
		post, err := unmarshalPost(item)
		if err != nil {
			r.logger.Warn("skipping undecodable post in liked feed",
				zap.String("username", username),
				zap.String("pk", itemPK(item)),
				zap.Error(err),
			)
			continue
		}
		idx, ok := order[post.ID]
		if !ok {
			continue
		}
		posts[idx] = post
		found++
	}
	if found < len(keys) {
		r.logger.Warn("liked posts missing from batch read",
			zap.String("username", username),
			zap.Int("requested", len(keys)),
			zap.Int("found", found),
		)
	}

	compacted := make([]*entities.Post, 0, found)
	for _, post := range posts {
		if post != nil {
			compacted = append(compacted, post)
		}
	}

	next, err := EncodeCursor(page.LastKey)
	if err != nil {
		return nil, err
	}
	return &ports.PostPage{Posts: compacted, NextCursor: next}, nil
}

func (r *PostRepository) queryFeed(ctx context.Context, index schema.Index, partition string, opts ports.PageOptions) (*ports.PostPage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	startKey, err := DecodeCursor(opts.Cursor)
	if err != nil {
		return nil, err
	}

	page, err := r.gateway.Query(ctx, abstractions.Query{
		Index:          index,
		PartitionValue: partition,
		ScanForward:    false,
		Limit:          limit,
		StartKey:       startKey,
	})
	if err != nil {
		return nil, err
	}

	posts := make([]*entities.Post, 0, len(page.Items))
	for _, item := range page.Items {
		post, err := unmarshalPost(item)
		if err != nil {
			// a corrupt item must not take the whole feed down
			r.logger.Warn("skipping undecodable post in feed",
				zap.String("pk", itemPK(item)),
				zap.Error(err),
			)
			continue
		}
		posts = append(posts, post)
	}

	next, err := EncodeCursor(page.LastKey)
	if err != nil {
		return nil, err
	}
	return &ports.PostPage{Posts: posts, NextCursor: next}, nil
}

func marshalPost(post *entities.Post) (abstractions.Item, error) {
	feedSK := schema.FeedSK(post.UpdatedAt, post.ID)
	stored := postItem{
		PK:          schema.PostPK(post.ID),
		SK:          schema.MetaSK,
		UserID:      schema.UserRef(post.Username),
		Category:    post.Category,
		Title:       post.Title,
		Description: post.Description,
		Recommend1:  post.Recommend1,
		Recommend2:  post.Recommend2,
		Recommend3:  post.Recommend3,
		CreatedAt:   schema.FormatTime(post.CreatedAt),
		UpdatedAt:   schema.FormatTime(post.UpdatedAt),
		GSI1PK:      schema.AllPostsPK,
		GSI1SK:      feedSK,
		GSI2PK:      schema.CategoryFeedPK(post.Category),
		GSI2SK:      feedSK,
		GSI3PK:      schema.UserFeedPK(post.Username),
		GSI3SK:      feedSK,
	}

	item, err := attributevalue.MarshalMap(stored)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal post").WithCause(err)
	}
	return item, nil
}

func unmarshalPost(item abstractions.Item) (*entities.Post, error) {
	var stored postItem
	if err := attributevalue.UnmarshalMap(item, &stored); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal post").WithCause(err)
	}

	id, ok := schema.PostIDFromPK(stored.PK)
	if !ok {
		return nil, apperrors.NewIntegrityError(fmt.Sprintf("malformed post key %q", stored.PK))
	}
	username, ok := schema.UsernameFromRef(stored.UserID)
	if !ok {
		return nil, apperrors.NewIntegrityError(fmt.Sprintf("malformed post author %q", stored.UserID))
	}
	createdAt, err := schema.ParseTime(stored.CreatedAt)
	if err != nil {
		return nil, apperrors.NewIntegrityError(fmt.Sprintf("malformed post timestamp %q", stored.CreatedAt))
	}
	updatedAt, err := schema.ParseTime(stored.UpdatedAt)
	if err != nil {
		return nil, apperrors.NewIntegrityError(fmt.Sprintf("malformed post timestamp %q", stored.UpdatedAt))
	}

	return &entities.Post{
		ID:          id,
		Username:    username,
		Category:    stored.Category,
		Title:       stored.Title,
		Description: stored.Description,
		Recommend1:  stored.Recommend1,
		Recommend2:  stored.Recommend2,
		Recommend3:  stored.Recommend3,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// itemPK pulls the primary partition key out of a raw item so skipped rows
// can be identified in the logs.
func itemPK(item abstractions.Item) string {
	if pk, ok := item[schema.Primary.PartitionKey].(*types.AttributeValueMemberS); ok {
		return pk.Value
	}
	return ""
}
