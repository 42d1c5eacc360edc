package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mugenreco-backend/pkg/auth"
	"mugenreco-backend/pkg/common"
	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/application/services"
)

// LikeHandler handles like-related HTTP requests
type LikeHandler struct {
	likes  *services.LikeService
	errors *apperrors.ErrorHandler
	logger *zap.Logger
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(likes *services.LikeService, errors *apperrors.ErrorHandler, logger *zap.Logger) *LikeHandler {
	return &LikeHandler{
		likes:  likes,
		errors: errors,
		logger: logger,
	}
}

// Status handles GET /api/posts/{postID}/likes/status
func (h *LikeHandler) Status(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	liked, err := h.likes.Status(r.Context(), chi.URLParam(r, "postID"), username)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// Toggle handles POST /api/posts/{postID}/like-toggle
func (h *LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	result, err := h.likes.Toggle(r.Context(), chi.URLParam(r, "postID"), username)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"post_id":    result.PostID,
		"is_liked":   result.Liked,
		"like_count": result.LikeCount,
	})
}

// Like handles POST /api/posts/{postID}/likes
func (h *LikeHandler) Like(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	if err := h.likes.Like(r.Context(), chi.URLParam(r, "postID"), username); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{"message": "like added successfully"})
}

// Unlike handles DELETE /api/posts/{postID}/likes
func (h *LikeHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	if err := h.likes.Unlike(r.Context(), chi.URLParam(r, "postID"), username); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "like removed successfully"})
}

// Count handles GET /api/posts/{postID}/likes
func (h *LikeHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.likes.Count(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]int{"like_count": count})
}
