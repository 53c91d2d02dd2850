package model

import "time"

// Category is a user-defined bucket for videos.
//
// Each category belongs to exactly one user — categories are never shared,
// and the (user, name) pair is unique. Name uniqueness is NOT global: two
// different users can each have a "Gaming" category.
//
// Keywords drive auto-assignment: when a video is ingested without an
// explicit category, the matcher scans each category's keywords (in list
// order) against the video's title and description. The list may be empty,
// in which case the category never auto-matches and is assign-only.
//
// Keywords are stored in SQLite as a JSON-encoded array in a TEXT column.
// SQLite has no native array type; JSON round-tripping in the repository
// keeps the model free of storage concerns.
type Category struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Name      string    `json:"name"      db:"name"`
	Keywords  []string  `json:"keywords"  db:"keywords"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
