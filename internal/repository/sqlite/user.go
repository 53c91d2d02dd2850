package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/video-catalog/internal/apperror"
	"github.com/sakif/video-catalog/internal/model"
	"github.com/sakif/video-catalog/internal/repository"
)

// UserRepo implements repository.UserRepository on the shared connection
// pool. Obtain one via DB.Users().
type UserRepo struct {
	conn *sql.DB
}

// compile-time check
var _ repository.UserRepository = (*UserRepo)(nil)

// Create inserts a new password-based user account.
// Returns apperror.ErrConflict if the email is already registered.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, google_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.GoogleID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// The UNIQUE(email) constraint is the only one this insert can
		// trip; surface it as a domain conflict rather than a raw
		// driver error string.
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves a user by their unique email address.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, `WHERE email = ?`, email)
}

func (r *UserRepo) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, google_id, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.GoogleID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprintf("%v", arg))
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", arg, err)
	}

	return &u, nil
}

// UpsertGoogle inserts or updates a user based on their Google subject id.
//
// First login → INSERT; subsequent logins → UPDATE the name/email in case
// the user changed them on their Google account. We look up the existing
// row first because an existing user must KEEP their internal ID — videos
// and categories hang off it.
func (r *UserRepo) UpsertGoogle(ctx context.Context, user *model.User) error {
	var existingID string
	err := r.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE google_id = ? AND google_id != ''`, user.GoogleID,
	).Scan(&existingID)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user by google_id: %w", err)
	}

	if existingID != "" {
		user.ID = existingID
		user.UpdatedAt = time.Now()
		_, err = r.conn.ExecContext(ctx,
			`UPDATE users SET email = ?, name = ?, updated_at = ? WHERE id = ?`,
			user.Email,
			user.Name,
			user.UpdatedAt,
			user.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	return r.Create(ctx, user)
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite does not export a typed error for this, so
// we match on the stable constraint message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
