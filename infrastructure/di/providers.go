package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"mugenreco-backend/pkg/auth"
	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/application/ports"
	"mugenreco-backend/application/services"
	"mugenreco-backend/infrastructure/config"
	"mugenreco-backend/infrastructure/messaging/eventbridge"
	"mugenreco-backend/infrastructure/persistence/abstractions"
	"mugenreco-backend/infrastructure/persistence/dynamodb"
	"mugenreco-backend/interfaces/http/rest"
	"mugenreco-backend/interfaces/http/rest/handlers"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at DynamoDB Local
// when an endpoint override is configured.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideGateway creates the single-table store gateway
func ProvideGateway(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) abstractions.Gateway {
	return dynamodb.NewGateway(client, cfg.DynamoDBTable, logger)
}

// ProvideUserRepository creates a user repository
func ProvideUserRepository(gateway abstractions.Gateway, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(gateway, logger)
}

// ProvidePostRepository creates a post repository
func ProvidePostRepository(gateway abstractions.Gateway, logger *zap.Logger) ports.PostRepository {
	return dynamodb.NewPostRepository(gateway, logger)
}

// ProvideCommentRepository creates a comment repository
func ProvideCommentRepository(gateway abstractions.Gateway, logger *zap.Logger) ports.CommentRepository {
	return dynamodb.NewCommentRepository(gateway, logger)
}

// ProvideLikeRepository creates a like repository
func ProvideLikeRepository(gateway abstractions.Gateway) ports.LikeRepository {
	return dynamodb.NewLikeRepository(gateway)
}

// ProvideCategoryRepository creates a category repository
func ProvideCategoryRepository(gateway abstractions.Gateway) ports.CategoryRepository {
	return dynamodb.NewCategoryRepository(gateway)
}

// ProvideCascadeDeleter creates the post cascade deleter
func ProvideCascadeDeleter(gateway abstractions.Gateway, logger *zap.Logger) ports.CascadeDeleter {
	return dynamodb.NewCascadeDeleter(gateway, logger)
}

// ProvideEventBus creates an event bus, or none when no bus is configured
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	if cfg.EventBusName == "" {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideTokenManager creates the session token manager
func ProvideTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *apperrors.ErrorHandler {
	return apperrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideAuthService creates the auth service
func ProvideAuthService(users ports.UserRepository, logger *zap.Logger) *services.AuthService {
	return services.NewAuthService(users, logger)
}

// ProvidePostService creates the post service
func ProvidePostService(
	posts ports.PostRepository,
	likes ports.LikeRepository,
	cascade ports.CascadeDeleter,
	bus ports.EventBus,
	logger *zap.Logger,
) *services.PostService {
	return services.NewPostService(posts, likes, cascade, bus, logger)
}

// ProvideCommentService creates the comment service
func ProvideCommentService(comments ports.CommentRepository, logger *zap.Logger) *services.CommentService {
	return services.NewCommentService(comments, logger)
}

// ProvideLikeService creates the like service
func ProvideLikeService(likes ports.LikeRepository, posts ports.PostRepository, logger *zap.Logger) *services.LikeService {
	return services.NewLikeService(likes, posts, logger)
}

// ProvideCategoryService creates the category service
func ProvideCategoryService(categories ports.CategoryRepository) *services.CategoryService {
	return services.NewCategoryService(categories)
}

// ProvideAuthHandler creates the auth handler
func ProvideAuthHandler(
	authService *services.AuthService,
	tokens *auth.TokenManager,
	errors *apperrors.ErrorHandler,
	logger *zap.Logger,
) *handlers.AuthHandler {
	return handlers.NewAuthHandler(authService, tokens, errors, logger)
}

// ProvidePostHandler creates the post handler
func ProvidePostHandler(posts *services.PostService, errors *apperrors.ErrorHandler, logger *zap.Logger) *handlers.PostHandler {
	return handlers.NewPostHandler(posts, errors, logger)
}

// ProvideCommentHandler creates the comment handler
func ProvideCommentHandler(comments *services.CommentService, errors *apperrors.ErrorHandler, logger *zap.Logger) *handlers.CommentHandler {
	return handlers.NewCommentHandler(comments, errors, logger)
}

// ProvideLikeHandler creates the like handler
func ProvideLikeHandler(likes *services.LikeService, errors *apperrors.ErrorHandler, logger *zap.Logger) *handlers.LikeHandler {
	return handlers.NewLikeHandler(likes, errors, logger)
}

// ProvideCategoryHandler creates the category handler
func ProvideCategoryHandler(categories *services.CategoryService, errors *apperrors.ErrorHandler, logger *zap.Logger) *handlers.CategoryHandler {
	return handlers.NewCategoryHandler(categories, errors, logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	tokens *auth.TokenManager,
	authHandler *handlers.AuthHandler,
	postHandler *handlers.PostHandler,
	commentHandler *handlers.CommentHandler,
	likeHandler *handlers.LikeHandler,
	categoryHandler *handlers.CategoryHandler,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, tokens, authHandler, postHandler, commentHandler, likeHandler, categoryHandler, logger)
}
