package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/video-catalog/internal/model"
)

// testDB opens a fresh in-memory database with the schema applied.
func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:): %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedUser inserts a user row; categories and videos hang off user IDs
// through foreign keys, so most tests need one.
func seedUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Name: "Test User", PasswordHash: "hash"}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", email, err)
	}
	return user
}

func seedCategory(t *testing.T, db *DB, userID, name string, keywords ...string) *model.Category {
	t.Helper()
	c := &model.Category{UserID: userID, Name: name, Keywords: keywords}
	if err := db.Categories().Create(context.Background(), c); err != nil {
		t.Fatalf("seeding category %s: %v", name, err)
	}
	return c
}
