package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/domain/core/entities"
	"mugenreco-backend/infrastructure/persistence/abstractions"
	"mugenreco-backend/infrastructure/persistence/schema"
)

// userItem is the stored shape of a user profile. The GSI4 attributes project
// the profile into the username lookup index.
type userItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Username  string `dynamodbav:"username"`
	Password  string `dynamodbav:"password"`
	CreatedAt string `dynamodbav:"created_at"`
	GSI4PK    string `dynamodbav:"GSI4_PK"`
	GSI4SK    string `dynamodbav:"GSI4_SK"`
}

// UserRepository implements ports.UserRepository on the single-table store.
type UserRepository struct {
	gateway abstractions.Gateway
	logger  *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(gateway abstractions.Gateway, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		gateway: gateway,
		logger:  logger,
	}
}

// Create stores a new user as two items: a guard item claiming the username,
// then the profile. The guard write is conditional, so two concurrent signups
// for the same name cannot both succeed. A profile write failing after the
// guard landed leaves the username claimed without a profile and is reported
// as a partial write.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	guard := abstractions.Item{
		schema.Primary.PartitionKey: &types.AttributeValueMemberS{Value: schema.UsernameLookupPK(user.Username)},
		schema.Primary.SortKey:      &types.AttributeValueMemberS{Value: schema.ProfileSK},
	}
	if err := r.gateway.Put(ctx, guard, true); err != nil {
		if errors.Is(err, abstractions.ErrConditionFailed) {
			return apperrors.NewConflictError("username already exists")
		}
		return err
	}

	profile := userItem{
		PK:        schema.UserPK(user.ID),
		SK:        schema.MetaSK,
		Username:  user.Username,
		Password:  user.PasswordHash,
		CreatedAt: schema.FormatTime(user.CreatedAt),
		GSI4PK:    schema.UsernameLookupPK(user.Username),
		GSI4SK:    schema.ProfileSK,
	}
	item, err := attributevalue.MarshalMap(profile)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal user").WithCause(err)
	}
	if err := r.gateway.Put(ctx, item, false); err != nil {
		r.logger.Error("user profile write failed after username guard",
			zap.String("username", user.Username),
			zap.Error(err),
		)
		return apperrors.NewPartialWriteError("CreateUser", 1, 1, err)
	}

	return nil
}

// FindByUsername looks the user up through the username index.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	page, err := r.gateway.Query(ctx, abstractions.Query{
		Index:          schema.IndexUsername,
		PartitionValue: schema.UsernameLookupPK(username),
		SortPrefix:     schema.ProfileSK,
		ScanForward:    true,
	})
	if err != nil {
		return nil, err
	}

	switch len(page.Items) {
	case 0:
		return nil, apperrors.NewNotFoundError("user")
	case 1:
		return unmarshalUser(page.Items[0])
	default:
		return nil, apperrors.NewIntegrityError(
			fmt.Sprintf("username %q maps to %d profiles", username, len(page.Items)))
	}
}

func unmarshalUser(item abstractions.Item) (*entities.User, error) {
	var stored userItem
	if err := attributevalue.UnmarshalMap(item, &stored); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal user").WithCause(err)
	}

	id, ok := schema.UserIDFromPK(stored.PK)
	if !ok {
		return nil, apperrors.NewIntegrityError(fmt.Sprintf("malformed user key %q", stored.PK))
	}
	createdAt, err := schema.ParseTime(stored.CreatedAt)
	if err != nil {
		return nil, apperrors.NewIntegrityError(fmt.Sprintf("malformed user timestamp %q", stored.CreatedAt))
	}

	return &entities.User{
		ID:           id,
		Username:     stored.Username,
		PasswordHash: stored.Password,
		CreatedAt:    createdAt,
	}, nil
}
