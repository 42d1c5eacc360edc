package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mugenreco-backend/pkg/auth"
	"mugenreco-backend/pkg/common"
	apperrors "mugenreco-backend/pkg/errors"
	"mugenreco-backend/pkg/utils"

	"mugenreco-backend/application/ports"
	"mugenreco-backend/application/services"
	"mugenreco-backend/domain/core/entities"
	"mugenreco-backend/infrastructure/persistence/schema"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 50
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	posts  *services.PostService
	errors *apperrors.ErrorHandler
	logger *zap.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(posts *services.PostService, errors *apperrors.ErrorHandler, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		errors: errors,
		logger: logger,
	}
}

// PostRequest represents the request body for creating or updating a post
type PostRequest struct {
	Category    string `json:"category" validate:"required,max=50"`
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=2000"`
	Recommend1  string `json:"recommend1" validate:"required,max=200"`
	Recommend2  string `json:"recommend2" validate:"required,max=200"`
	Recommend3  string `json:"recommend3" validate:"required,max=200"`
}

// PostResponse represents a post with its like information
type PostResponse struct {
	PostID      string `json:"post_id"`
	Username    string `json:"username"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Recommend1  string `json:"recommend1"`
	Recommend2  string `json:"recommend2"`
	Recommend3  string `json:"recommend3"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	LikeCount   int    `json:"like_count"`
	IsLiked     bool   `json:"is_liked"`
}

// Create handles POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	fields, err := h.decodeFields(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	detail, err := h.posts.CreatePost(r.Context(), username, fields)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, toPostResponse(detail))
}

// Get handles GET /api/posts/{postID}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer, _ := auth.UsernameFromContext(r.Context())

	detail, err := h.posts.GetPost(r.Context(), chi.URLParam(r, "postID"), viewer)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toPostResponse(detail))
}

// Update handles PUT /api/posts/{postID}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	fields, err := h.decodeFields(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	detail, err := h.posts.UpdatePost(r.Context(), chi.URLParam(r, "postID"), username, fields)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toPostResponse(detail))
}

// Delete handles DELETE /api/posts/{postID}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	postID := chi.URLParam(r, "postID")
	deleted, err := h.posts.DeletePost(r.Context(), postID, username)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "post deleted successfully",
		"items_deleted": deleted,
	})
}

// List handles GET /api/posts
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer, _ := auth.UsernameFromContext(r.Context())

	feed, err := h.posts.ListPosts(r.Context(), viewer, pageOptions(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondFeed(w, feed)
}

// ListByCategory handles GET /api/posts/category/{category}
func (h *PostHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	viewer, _ := auth.UsernameFromContext(r.Context())

	feed, err := h.posts.ListPostsByCategory(r.Context(), chi.URLParam(r, "category"), viewer, pageOptions(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondFeed(w, feed)
}

// ListByUser handles GET /api/users/{username}/posts. Users may only list
// their own posts.
func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("not logged in"))
		return
	}
	if chi.URLParam(r, "username") != username {
		h.errors.Handle(w, r, apperrors.NewForbiddenError("you can only view your own posts"))
		return
	}

	feed, err := h.posts.ListPostsByUser(r.Context(), username, pageOptions(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondFeed(w, feed)
}

// ListLiked handles GET /api/users/{username}/liked-posts. Users may only
// list their own liked posts.
func (h *PostHandler) ListLiked(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("not logged in"))
		return
	}
	if chi.URLParam(r, "username") != username {
		h.errors.Handle(w, r, apperrors.NewForbiddenError("you can only view your own liked posts"))
		return
	}

	feed, err := h.posts.ListLikedPosts(r.Context(), username, pageOptions(r))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondFeed(w, feed)
}

func (h *PostHandler) decodeFields(r *http.Request) (entities.PostFields, error) {
	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return entities.PostFields{}, apperrors.NewValidationError("invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return entities.PostFields{}, apperrors.NewValidationError(err.Error())
	}
	return entities.PostFields{
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		Recommend1:  req.Recommend1,
		Recommend2:  req.Recommend2,
		Recommend3:  req.Recommend3,
	}, nil
}

// pageOptions reads limit and cursor query parameters.
func pageOptions(r *http.Request) ports.PageOptions {
	opts := ports.PageOptions{
		Limit:  defaultFeedLimit,
		Cursor: r.URL.Query().Get("cursor"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit >= 1 && limit <= maxFeedLimit {
			opts.Limit = int32(limit)
		}
	}
	return opts
}

func respondFeed(w http.ResponseWriter, feed *services.PostFeed) {
	posts := make([]PostResponse, 0, len(feed.Posts))
	for _, detail := range feed.Posts {
		posts = append(posts, toPostResponse(detail))
	}
	common.RespondPage(w, http.StatusOK, posts, len(posts), feed.NextCursor)
}

func toPostResponse(detail *services.PostDetail) PostResponse {
	return PostResponse{
		PostID:      detail.ID,
		Username:    detail.Username,
		Category:    detail.Category,
		Title:       detail.Title,
		Description: detail.Description,
		Recommend1:  detail.Recommend1,
		Recommend2:  detail.Recommend2,
		Recommend3:  detail.Recommend3,
		CreatedAt:   schema.FormatTime(detail.CreatedAt),
		UpdatedAt:   schema.FormatTime(detail.UpdatedAt),
		LikeCount:   detail.LikeCount,
		IsLiked:     detail.Liked,
	}
}
