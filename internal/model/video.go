package model

import "time"

// Video is a cataloged video belonging to exactly one user.
//
// VideoID is the natural key: the external platform's video identifier
// (e.g. YouTube's "lJaHSbygvTM"). It is unique PER OWNER, not globally —
// two users can each import the same YouTube video and get independent
// rows. Repeat imports of the same id by the same owner update the
// existing row in place (idempotent upsert).
//
// CategoryID is optional. It is cleared (not cascaded) when the category
// is deleted, so removing a category never removes videos.
//
// DeletedAt is a soft-delete tombstone. A deleted video is excluded from
// every listing, search, and upsert lookup, but the row is retained for
// referential history. Zero value means "live".
type Video struct {
	ID          string     `json:"id"          db:"id"`
	UserID      string     `json:"userId"      db:"user_id"`
	VideoID     string     `json:"videoId"     db:"video_id"` // external natural key
	Title       string     `json:"title"       db:"title"`
	Description string     `json:"description" db:"description"`
	PublishedAt time.Time  `json:"publishedAt" db:"published_at"`
	CategoryID  string     `json:"categoryId,omitempty" db:"category_id"` // empty = uncategorized
	DeletedAt   *time.Time `json:"-"           db:"deleted_at"`
	CreatedAt   time.Time  `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt"   db:"updated_at"`
}
