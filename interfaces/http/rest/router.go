package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mugenreco-backend/pkg/auth"

	"mugenreco-backend/infrastructure/config"
	"mugenreco-backend/interfaces/http/rest/handlers"
	"mugenreco-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg        *config.Config
	tokens     *auth.TokenManager
	auth       *handlers.AuthHandler
	posts      *handlers.PostHandler
	comments   *handlers.CommentHandler
	likes      *handlers.LikeHandler
	categories *handlers.CategoryHandler
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	tokens *auth.TokenManager,
	authHandler *handlers.AuthHandler,
	postHandler *handlers.PostHandler,
	commentHandler *handlers.CommentHandler,
	likeHandler *handlers.LikeHandler,
	categoryHandler *handlers.CategoryHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:        cfg,
		tokens:     tokens,
		auth:       authHandler,
		posts:      postHandler,
		comments:   commentHandler,
		likes:      likeHandler,
		categories: categoryHandler,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestLogger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)

	router.Route("/api", func(r chi.Router) {
		// Session endpoints
		r.Post("/register", rt.auth.Register)
		r.Post("/login", rt.auth.Login)
		r.Post("/logout", rt.auth.Logout)
		r.Get("/check-username/{username}", rt.auth.CheckUsername)

		// Public reads carry like state when a session token is present
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthenticate(rt.tokens))

			r.Get("/posts", rt.posts.List)
			r.Get("/posts/category/{category}", rt.posts.ListByCategory)
			r.Get("/posts/{postID}", rt.posts.Get)
			r.Get("/posts/{postID}/comments", rt.comments.List)
			r.Get("/posts/{postID}/likes", rt.likes.Count)
			r.Get("/categories", rt.categories.List)
		})

		// Everything else requires a session
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.tokens))

			r.Get("/user", rt.auth.CurrentUser)

			r.Post("/posts", rt.posts.Create)
			r.Put("/posts/{postID}", rt.posts.Update)
			r.Delete("/posts/{postID}", rt.posts.Delete)

			r.Get("/users/{username}/posts", rt.posts.ListByUser)
			r.Get("/users/{username}/liked-posts", rt.posts.ListLiked)

			r.Post("/posts/{postID}/comments", rt.comments.Create)
			r.Delete("/posts/{postID}/comments/{commentID}", rt.comments.Delete)

			r.Get("/posts/{postID}/likes/status", rt.likes.Status)
			r.Post("/posts/{postID}/like-toggle", rt.likes.Toggle)
			r.Post("/posts/{postID}/likes", rt.likes.Like)
			r.Delete("/posts/{postID}/likes", rt.likes.Unlike)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
