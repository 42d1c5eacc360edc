package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mugenreco-backend/pkg/auth"
	"mugenreco-backend/pkg/common"
	apperrors "mugenreco-backend/pkg/errors"
	"mugenreco-backend/pkg/utils"

	"mugenreco-backend/application/services"
	"mugenreco-backend/domain/core/entities"
	"mugenreco-backend/infrastructure/persistence/schema"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	comments *services.CommentService
	errors   *apperrors.ErrorHandler
	logger   *zap.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(comments *services.CommentService, errors *apperrors.ErrorHandler, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		errors:   errors,
		logger:   logger,
	}
}

// CommentRequest represents the request body for creating a comment
type CommentRequest struct {
	Comment string `json:"comment" validate:"required,max=1000"`
}

// CommentResponse represents a comment
type CommentResponse struct {
	CommentID string `json:"comment_id"`
	PostID    string `json:"post_id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Create handles POST /api/posts/{postID}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return
	}

	comment, err := h.comments.CreateComment(r.Context(), chi.URLParam(r, "postID"), username, req.Comment)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// List handles GET /api/posts/{postID}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.ListComments(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, toCommentResponse(comment))
	}
	common.RespondJSON(w, http.StatusOK, responses)
}

// Delete handles DELETE /api/posts/{postID}/comments/{commentID}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		h.errors.Handle(w, r, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	postID := chi.URLParam(r, "postID")
	commentID := chi.URLParam(r, "commentID")
	if err := h.comments.DeleteComment(r.Context(), postID, commentID, username); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "comment deleted successfully",
	})
}

func toCommentResponse(comment *entities.Comment) CommentResponse {
	return CommentResponse{
		CommentID: comment.ID,
		PostID:    comment.PostID,
		Username:  comment.Username,
		Content:   comment.Content,
		CreatedAt: schema.FormatTime(comment.CreatedAt),
	}
}
