package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/video-catalog/internal/apperror"
	"github.com/sakif/video-catalog/internal/model"
	"github.com/sakif/video-catalog/internal/repository"
)

const MaxCategoryNameLength = 255

// CategoryService handles business logic for user-scoped categories.
type CategoryService struct {
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewCategoryService(categories repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		logger:     logger,
	}
}

// Create validates and saves a new category for ownerID.
//
// Name uniqueness is enforced per owner by the repository (the
// (user_id, name) unique constraint) and surfaces as ErrConflict — the
// service doesn't pre-check, which would just race the insert anyway.
func (s *CategoryService) Create(ctx context.Context, ownerID, name string, keywords []string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "category name is required")
	}
	if len(name) > MaxCategoryNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("category name must be %d characters or less", MaxCategoryNameLength))
	}

	category := &model.Category{
		UserID:   ownerID,
		Name:     name,
		Keywords: normalizeKeywords(keywords),
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created",
		slog.String("id", category.ID),
		slog.String("name", category.Name),
	)

	return category, nil
}

// GetByID retrieves a category, enforcing that the caller owns it.
func (s *CategoryService) GetByID(ctx context.Context, ownerID, id string) (*model.Category, error) {
	return s.fetchOwned(ctx, ownerID, id)
}

// List returns all of the caller's categories in stable creation order —
// the same order the keyword matcher sees during ingest.
func (s *CategoryService) List(ctx context.Context, ownerID string) ([]model.Category, error) {
	categories, err := s.categories.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list categories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

// Update modifies an owned category's name and keyword list.
func (s *CategoryService) Update(ctx context.Context, ownerID, id, name string, keywords []string) (*model.Category, error) {
	category, err := s.fetchOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "category name is required")
	}
	if len(name) > MaxCategoryNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("category name must be %d characters or less", MaxCategoryNameLength))
	}

	category.Name = name
	category.Keywords = normalizeKeywords(keywords)

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category updated", slog.String("id", id))
	return category, nil
}

// Delete removes an owned category. Videos assigned to it are NOT
// deleted — the database clears their category reference.
func (s *CategoryService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.fetchOwned(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("category deleted", slog.String("id", id))
	return nil
}

func (s *CategoryService) fetchOwned(ctx context.Context, ownerID, id string) (*model.Category, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "category ID is required")
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.UserID != ownerID {
		return nil, apperror.Forbidden("you do not own this category")
	}

	return category, nil
}

// normalizeKeywords trims whitespace and drops empty entries while
// preserving order — keyword order is meaningful to the matcher.
func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
