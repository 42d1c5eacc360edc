//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"mugenreco-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideGateway,
	ProvideUserRepository,
	ProvidePostRepository,
	ProvideCommentRepository,
	ProvideLikeRepository,
	ProvideCategoryRepository,
	ProvideCascadeDeleter,
	ProvideEventBus,
	ProvideTokenManager,
	ProvideErrorHandler,
	ProvideAuthService,
	ProvidePostService,
	ProvideCommentService,
	ProvideLikeService,
	ProvideCategoryService,
	ProvideAuthHandler,
	ProvidePostHandler,
	ProvideCommentHandler,
	ProvideLikeHandler,
	ProvideCategoryHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
