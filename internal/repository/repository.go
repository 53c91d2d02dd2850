// Package repository defines the storage interfaces consumed by the
// service layer. The sqlite subpackage provides the real implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/video-catalog/internal/model"
)

// ListOptions controls pagination and keyword search on video listings.
type ListOptions struct {
	Query  string // optional substring searched in title and description
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// UpsertGoogle inserts or updates a user keyed on their Google subject id.
	UpsertGoogle(ctx context.Context, user *model.User) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	// ListByOwner returns all of one user's categories ordered by
	// creation time. The order is part of the contract: the keyword
	// matcher is first-match-wins, so it must be stable.
	ListByOwner(ctx context.Context, userID string) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	// Delete removes the category. Videos referencing it keep existing
	// with their category reference cleared (ON DELETE SET NULL).
	Delete(ctx context.Context, id string) error
}

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, id string) (*model.Video, error)
	// GetByNaturalKey looks up a LIVE video by its owner-scoped external
	// id. Soft-deleted rows are invisible to this lookup, so re-importing
	// a deleted video creates a fresh row.
	GetByNaturalKey(ctx context.Context, userID, videoID string) (*model.Video, error)
	// ListByOwner returns the owner's live videos, newest published
	// first, with optional keyword search and pagination.
	ListByOwner(ctx context.Context, userID string, opts ListOptions) ([]model.Video, error)
	Update(ctx context.Context, video *model.Video) error
	// SoftDelete sets the tombstone. Deleting an already-deleted or
	// unknown id returns apperror.ErrNotFound.
	SoftDelete(ctx context.Context, id string) error
}
