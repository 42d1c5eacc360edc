package di

import (
	"go.uber.org/zap"

	"mugenreco-backend/pkg/auth"

	"mugenreco-backend/application/ports"
	"mugenreco-backend/application/services"
	"mugenreco-backend/infrastructure/config"
	"mugenreco-backend/interfaces/http/rest"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Tokens *auth.TokenManager

	UserRepo     ports.UserRepository
	PostRepo     ports.PostRepository
	CommentRepo  ports.CommentRepository
	LikeRepo     ports.LikeRepository
	CategoryRepo ports.CategoryRepository
	Cascade      ports.CascadeDeleter
	EventBus     ports.EventBus

	AuthService     *services.AuthService
	PostService     *services.PostService
	CommentService  *services.CommentService
	LikeService     *services.LikeService
	CategoryService *services.CategoryService

	Router *rest.Router
}
