// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-tier split:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces ownership, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept repository interfaces, not concrete types, so tests
// inject in-memory mocks and the HTTP layer never touches SQL.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/video-catalog/internal/apperror"
	"github.com/sakif/video-catalog/internal/matcher"
	"github.com/sakif/video-catalog/internal/model"
	"github.com/sakif/video-catalog/internal/repository"
)

const (
	MaxTitleLength   = 255
	MaxVideoIDLength = 255
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// VideoService handles business logic for videos: CRUD with ownership
// enforcement, and the ingest upsert used by both manual creation and
// imports.
type VideoService struct {
	videos     repository.VideoRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewVideoService(
	videos repository.VideoRepository,
	categories repository.CategoryRepository,
	logger *slog.Logger,
) *VideoService {
	return &VideoService{
		videos:     videos,
		categories: categories,
		logger:     logger,
	}
}

// Ingest performs an idempotent create-or-update of a video record keyed
// by its owner-scoped natural key (the external video id).
//
// The acting owner is always an explicit parameter — there is no default
// or ambient user anywhere in the ingestion path.
//
// CATEGORY RESOLUTION:
//   - categoryID given → it must exist and belong to ownerID, otherwise
//     the call fails with a validation error on that field. No keyword
//     matching happens.
//   - categoryID empty → the owner's categories are fetched (in their
//     stable creation order) and the keyword matcher picks one, possibly
//     none.
//
// UPSERT SEMANTICS:
// An existing live row with the same (owner, external id) is overwritten
// in place — title, description, publish time, and category all take the
// incoming values. Otherwise a new row is inserted. Either way exactly
// one row results, no matter how many times the same id is ingested.
func (s *VideoService) Ingest(
	ctx context.Context,
	ownerID, externalID, title, description string,
	publishedAt time.Time,
	categoryID string,
) (*model.Video, error) {
	if ownerID == "" {
		return nil, apperror.ValidationFailed("owner", "acting user is required")
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, apperror.ValidationFailed("videoId", "video id is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}

	resolved, err := s.resolveCategory(ctx, ownerID, title, description, categoryID)
	if err != nil {
		return nil, err
	}

	existing, err := s.videos.GetByNaturalKey(ctx, ownerID, externalID)
	switch {
	case err == nil:
		existing.Title = title
		existing.Description = description
		existing.PublishedAt = publishedAt
		existing.CategoryID = resolved
		if err := s.videos.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("updating ingested video: %w", err)
		}
		s.logger.Info("video updated by ingest",
			slog.String("id", existing.ID),
			slog.String("videoID", externalID),
		)
		return existing, nil

	case errors.Is(err, apperror.ErrNotFound):
		video := &model.Video{
			UserID:      ownerID,
			VideoID:     externalID,
			Title:       title,
			Description: description,
			PublishedAt: publishedAt,
			CategoryID:  resolved,
		}
		if err := s.videos.Create(ctx, video); err != nil {
			return nil, fmt.Errorf("creating ingested video: %w", err)
		}
		s.logger.Info("video created by ingest",
			slog.String("id", video.ID),
			slog.String("videoID", externalID),
		)
		return video, nil

	default:
		return nil, fmt.Errorf("looking up video %s: %w", externalID, err)
	}
}

// resolveCategory validates an explicit category or runs the keyword
// matcher when none is given. Returns "" for "no category".
func (s *VideoService) resolveCategory(ctx context.Context, ownerID, title, description, categoryID string) (string, error) {
	if categoryID != "" {
		category, err := s.categories.GetByID(ctx, categoryID)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return "", apperror.ValidationFailed("categoryId", "category does not exist")
			}
			return "", fmt.Errorf("checking category %s: %w", categoryID, err)
		}
		// A category belonging to someone else is indistinguishable
		// from a nonexistent one as far as this caller is concerned.
		if category.UserID != ownerID {
			return "", apperror.ValidationFailed("categoryId", "category does not exist")
		}
		return categoryID, nil
	}

	candidates, err := s.categories.ListByOwner(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("listing categories for matching: %w", err)
	}

	return matcher.Match(title, description, candidates), nil
}

// GetByID retrieves a video, enforcing that the caller owns it.
func (s *VideoService) GetByID(ctx context.Context, ownerID, id string) (*model.Video, error) {
	video, err := s.fetchOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return video, nil
}

// List retrieves the caller's videos, newest published first, with
// optional keyword search over title and description.
func (s *VideoService) List(ctx context.Context, ownerID, query string, limit, offset int) ([]model.Video, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	videos, err := s.videos.ListByOwner(ctx, ownerID, repository.ListOptions{
		Query:  strings.TrimSpace(query),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list videos", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing videos: %w", err)
	}

	return videos, nil
}

// Update modifies an owned video's metadata. An empty publishedAt leaves
// the stored publish time unchanged; an empty categoryID clears the
// assignment (it does NOT trigger keyword matching — only ingest does).
func (s *VideoService) Update(
	ctx context.Context,
	ownerID, id, title, description string,
	publishedAt time.Time,
	categoryID string,
) (*model.Video, error) {
	video, err := s.fetchOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}

	if categoryID != "" {
		if _, err := s.resolveCategory(ctx, ownerID, "", "", categoryID); err != nil {
			return nil, err
		}
	}

	video.Title = title
	video.Description = description
	if !publishedAt.IsZero() {
		video.PublishedAt = publishedAt
	}
	video.CategoryID = categoryID

	if err := s.videos.Update(ctx, video); err != nil {
		s.logger.Error("failed to update video",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating video: %w", err)
	}

	return video, nil
}

// Delete soft-deletes an owned video. The row survives as a tombstone;
// deleting it again returns NotFound.
func (s *VideoService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.fetchOwned(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.videos.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("video deleted", slog.String("id", id))
	return nil
}

// fetchOwned loads a video and verifies ownership. The ownership check
// runs before any mutation.
func (s *VideoService) fetchOwned(ctx context.Context, ownerID, id string) (*model.Video, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "video ID is required")
	}

	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if video.UserID != ownerID {
		return nil, apperror.Forbidden("you do not own this video")
	}

	return video, nil
}
