// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a
// C compiler installed and cross-compilation becomes painful.
// modernc.org/sqlite is a pure Go translation of the SQLite C code — no C
// compiler needed, works everywhere Go works.
//
// The package wraps a database/sql connection pool; each entity gets its
// own file (user.go, category.go, video.go) holding the queries.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/catalog.db"  → file-based database (persistent)
//   - ":memory:"         → in-memory database (great for tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows one writer at a time. A single pooled connection
	// serializes writes instead of surfacing SQLITE_BUSY, and it keeps
	// ":memory:" databases coherent — with multiple connections each
	// one would get its own empty in-memory database.
	conn.SetMaxOpenConns(1)

	// Ping verifies the connection actually works. Without this, a bad
	// path or permissions issue would only surface on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is happening —
	// important for a web server where multiple requests hit the DB.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (backwards compatibility).
	// We need them ON: category deletion must null out video references.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserRepo {
	return &UserRepo{conn: db.conn}
}

// Categories returns the category repository backed by this database.
func (db *DB) Categories() *CategoryRepo {
	return &CategoryRepo{conn: db.conn}
}

// Videos returns the video repository backed by this database.
func (db *DB) Videos() *VideoRepo {
	return &VideoRepo{conn: db.conn}
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS is idempotent —
// safe to run on every startup without a migration tracker.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			google_id     TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_google_id ON users(google_id);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// (user_id, name) is unique — category names are scoped to their
	// owner, never global.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name       TEXT NOT NULL,
			keywords   TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, name)
		);
		CREATE INDEX IF NOT EXISTS idx_categories_user_id ON categories(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating categories table: %w", err)
	}

	// video_id is the external platform's id — the natural key for import
	// idempotency, unique per owner so different users can catalog the
	// same upstream video independently.
	//
	// The uniqueness index is partial (WHERE deleted_at IS NULL): only
	// LIVE rows compete for the natural key. A soft-deleted video leaves
	// its tombstone behind without blocking a later re-import. The index
	// is also what makes concurrent imports of the same id safe — the
	// second insert fails instead of producing a duplicate row.
	//
	// category_id uses ON DELETE SET NULL: deleting a category must not
	// delete its videos, only orphan them.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS videos (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			video_id     TEXT NOT NULL,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			published_at DATETIME NOT NULL,
			category_id  TEXT REFERENCES categories(id) ON DELETE SET NULL,
			deleted_at   DATETIME,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_videos_natural_key
			ON videos(user_id, video_id) WHERE deleted_at IS NULL;
		CREATE INDEX IF NOT EXISTS idx_videos_user_id ON videos(user_id);
		CREATE INDEX IF NOT EXISTS idx_videos_published_at ON videos(published_at);
	`)
	if err != nil {
		return fmt.Errorf("creating videos table: %w", err)
	}

	return nil
}
