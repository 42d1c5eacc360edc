package services

import (
	"context"

	"mugenreco-backend/application/ports"
	"mugenreco-backend/domain/core/entities"
)

// CategoryService exposes the category catalog.
type CategoryService struct {
	categories ports.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categories ports.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// ListCategories returns the whole catalog ordered by ID.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	return s.categories.List(ctx)
}

// RegisterCategory adds or renames a catalog entry.
func (s *CategoryService) RegisterCategory(ctx context.Context, category *entities.Category) error {
	return s.categories.Create(ctx, category)
}
