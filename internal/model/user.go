// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account that owns categories and videos.
//
// Two login methods share this table: email+password and Google OAuth.
// A password account has PasswordHash set and GoogleID empty; an OAuth
// account has GoogleID set (Google's stable "sub" identifier) and an
// empty PasswordHash. Email is unique either way.
//
// WHY GoogleID string (not *string)?
// Google's subject claim is an opaque string. We use the empty string as
// "no linked Google account" rather than a nullable pointer — simpler to
// work with and safe to compare.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	Name         string    `json:"name"      db:"name"`
	PasswordHash string    `json:"-"         db:"password_hash"` // never serialized
	GoogleID     string    `json:"-"         db:"google_id"`     // Google "sub" claim (may be empty)
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
