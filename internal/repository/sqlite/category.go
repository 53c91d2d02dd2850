package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/video-catalog/internal/apperror"
	"github.com/sakif/video-catalog/internal/model"
	"github.com/sakif/video-catalog/internal/repository"
)

// CategoryRepo implements repository.CategoryRepository on the shared
// connection pool. Obtain one via DB.Categories().
type CategoryRepo struct {
	conn *sql.DB
}

// compile-time check
var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// Create inserts a new category.
//
// Keywords are stored as a JSON array in a TEXT column — SQLite has no
// native array type, and the keyword lists are small enough that
// round-tripping through encoding/json per row is negligible.
//
// Returns apperror.ErrConflict when the (user_id, name) pair already
// exists: category names are unique within an owner, not globally.
func (r *CategoryRepo) Create(ctx context.Context, category *model.Category) error {
	now := time.Now()
	category.ID = xid.New().String()
	category.CreatedAt = now
	category.UpdatedAt = now

	keywords, err := encodeKeywords(category.Keywords)
	if err != nil {
		return err
	}

	_, err = r.conn.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, keywords, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		category.ID,
		category.UserID,
		category.Name,
		keywords,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("category", category.Name)
		}
		return fmt.Errorf("sqlite: inserting category %q: %w", category.Name, err)
	}

	return nil
}

// GetByID retrieves a single category by its ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var (
		c   model.Category
		raw string
	)

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, keywords, created_at, updated_at
		 FROM categories WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.UserID, &c.Name, &raw, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("category", id)
		}
		return nil, fmt.Errorf("sqlite: getting category %s: %w", id, err)
	}

	if c.Keywords, err = decodeKeywords(raw); err != nil {
		return nil, err
	}

	return &c, nil
}

// ListByOwner returns all categories owned by userID, oldest first.
//
// ORDER BY created_at, id: the keyword matcher is first-match-wins, so
// listing order is load-bearing — it must be identical between calls.
// The id tiebreak covers categories created within the same timestamp
// granularity.
func (r *CategoryRepo) ListByOwner(ctx context.Context, userID string) ([]model.Category, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, user_id, name, keywords, created_at, updated_at
		 FROM categories
		 WHERE user_id = ?
		 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var (
			c   model.Category
			raw string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &raw, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		if c.Keywords, err = decodeKeywords(raw); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	return categories, nil
}

// Update modifies an existing category's name and keywords.
func (r *CategoryRepo) Update(ctx context.Context, category *model.Category) error {
	category.UpdatedAt = time.Now()

	keywords, err := encodeKeywords(category.Keywords)
	if err != nil {
		return err
	}

	result, err := r.conn.ExecContext(ctx,
		`UPDATE categories SET name = ?, keywords = ?, updated_at = ? WHERE id = ?`,
		category.Name,
		keywords,
		category.UpdatedAt,
		category.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("category", category.Name)
		}
		return fmt.Errorf("sqlite: updating category %s: %w", category.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("category", category.ID)
	}

	return nil
}

// Delete removes a category by its ID.
//
// The videos.category_id foreign key is declared ON DELETE SET NULL, so
// the database clears the reference on every video that pointed here —
// the videos themselves survive.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	result, err := r.conn.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting category %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("category", id)
	}

	return nil
}

func encodeKeywords(keywords []string) (string, error) {
	if keywords == nil {
		keywords = []string{}
	}
	b, err := json.Marshal(keywords)
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding keywords: %w", err)
	}
	return string(b), nil
}

func decodeKeywords(raw string) ([]string, error) {
	var keywords []string
	if err := json.Unmarshal([]byte(raw), &keywords); err != nil {
		return nil, fmt.Errorf("sqlite: decoding keywords %q: %w", raw, err)
	}
	return keywords, nil
}
