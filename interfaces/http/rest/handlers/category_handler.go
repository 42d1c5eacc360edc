package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mugenreco-backend/pkg/common"
	apperrors "mugenreco-backend/pkg/errors"

	"mugenreco-backend/application/services"
)

// CategoryHandler handles category catalog requests
type CategoryHandler struct {
	categories *services.CategoryService
	errors     *apperrors.ErrorHandler
	logger     *zap.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories *services.CategoryService, errors *apperrors.ErrorHandler, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		errors:     errors,
		logger:     logger,
	}
}

// CategoryResponse represents a catalog entry
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// List handles GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, CategoryResponse{ID: category.ID, Name: category.Name})
	}
	common.RespondJSON(w, http.StatusOK, responses)
}
