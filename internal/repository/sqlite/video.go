package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/video-catalog/internal/apperror"
	"github.com/sakif/video-catalog/internal/model"
	"github.com/sakif/video-catalog/internal/repository"
)

// VideoRepo implements repository.VideoRepository on the shared
// connection pool. Obtain one via DB.Videos().
type VideoRepo struct {
	conn *sql.DB
}

// compile-time check
var _ repository.VideoRepository = (*VideoRepo)(nil)

const videoColumns = `id, user_id, video_id, title, description, published_at,
	category_id, deleted_at, created_at, updated_at`

// Create inserts a new video row.
//
// The partial unique index on (user_id, video_id) WHERE deleted_at IS NULL
// is the storage-level guarantee the ingest upsert relies on: two
// concurrent imports of the same external id cannot both insert — the
// loser gets a constraint error instead of creating a duplicate row.
func (r *VideoRepo) Create(ctx context.Context, video *model.Video) error {
	now := time.Now()
	video.ID = xid.New().String()
	video.CreatedAt = now
	video.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO videos (id, user_id, video_id, title, description, published_at,
		                     category_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		video.ID,
		video.UserID,
		video.VideoID,
		video.Title,
		video.Description,
		video.PublishedAt,
		nullable(video.CategoryID),
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("video", video.VideoID)
		}
		return fmt.Errorf("sqlite: inserting video %s: %w", video.VideoID, err)
	}

	return nil
}

// GetByID retrieves a live video by its internal ID.
// Soft-deleted videos are invisible: they return apperror.ErrNotFound.
func (r *VideoRepo) GetByID(ctx context.Context, id string) (*model.Video, error) {
	v, err := r.scanVideo(r.conn.QueryRowContext(ctx,
		`SELECT `+videoColumns+`
		 FROM videos WHERE id = ? AND deleted_at IS NULL`,
		id,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("video", id)
		}
		return nil, fmt.Errorf("sqlite: getting video %s: %w", id, err)
	}
	return v, nil
}

// GetByNaturalKey looks up a live video by its owner-scoped external id.
// This is the lookup side of the import upsert.
func (r *VideoRepo) GetByNaturalKey(ctx context.Context, userID, videoID string) (*model.Video, error) {
	v, err := r.scanVideo(r.conn.QueryRowContext(ctx,
		`SELECT `+videoColumns+`
		 FROM videos WHERE user_id = ? AND video_id = ? AND deleted_at IS NULL`,
		userID, videoID,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("video", videoID)
		}
		return nil, fmt.Errorf("sqlite: getting video by natural key %s: %w", videoID, err)
	}
	return v, nil
}

// ListByOwner returns the owner's live videos, newest published first.
//
// opts.Query, when set, is matched as a substring against title and
// description (the original catalog's search behavior). LIMIT/OFFSET
// pagination with the usual clamps.
func (r *VideoRepo) ListByOwner(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Video, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + videoColumns + `
		 FROM videos
		 WHERE user_id = ? AND deleted_at IS NULL`
	args := []any{userID}

	if opts.Query != "" {
		query += ` AND (title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`
		pattern := "%" + escapeLike(opts.Query) + "%"
		args = append(args, pattern, pattern)
	}

	query += ` ORDER BY published_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing videos: %w", err)
	}
	defer rows.Close()

	videos := make([]model.Video, 0, limit)
	for rows.Next() {
		v, err := r.scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning video row: %w", err)
		}
		videos = append(videos, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating videos: %w", err)
	}

	return videos, nil
}

// Update overwrites a live video's mutable fields.
func (r *VideoRepo) Update(ctx context.Context, video *model.Video) error {
	video.UpdatedAt = time.Now()

	result, err := r.conn.ExecContext(ctx,
		`UPDATE videos
		 SET title = ?, description = ?, published_at = ?, category_id = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		video.Title,
		video.Description,
		video.PublishedAt,
		nullable(video.CategoryID),
		video.UpdatedAt,
		video.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating video %s: %w", video.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("video", video.ID)
	}

	return nil
}

// SoftDelete sets the tombstone on a live video.
//
// The WHERE clause filters out already-deleted rows, so deleting the same
// id twice reports NotFound the second time — repeat deletion is a no-op
// failure, never a crash and never a double tombstone.
func (r *VideoRepo) SoftDelete(ctx context.Context, id string) error {
	result, err := r.conn.ExecContext(ctx,
		`UPDATE videos SET deleted_at = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		time.Now(), time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting video %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("video", id)
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (r *VideoRepo) scanVideo(s scanner) (*model.Video, error) {
	var (
		v          model.Video
		categoryID sql.NullString
		deletedAt  sql.NullTime
	)

	err := s.Scan(
		&v.ID,
		&v.UserID,
		&v.VideoID,
		&v.Title,
		&v.Description,
		&v.PublishedAt,
		&categoryID,
		&deletedAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.CategoryID = categoryID.String
	if deletedAt.Valid {
		t := deletedAt.Time
		v.DeletedAt = &t
	}

	return &v, nil
}

// nullable converts the model's ""-means-absent category reference into a
// proper SQL NULL so the ON DELETE SET NULL foreign key behaves.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// escapeLike escapes LIKE wildcards in user-supplied search text so that
// a query for "100%" matches the literal characters.
func escapeLike(s string) string {
	r := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			r = append(r, '\\')
		}
		r = append(r, s[i])
	}
	return string(r)
}
