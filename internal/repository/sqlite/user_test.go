package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/video-catalog/internal/apperror"
	"github.com/sakif/video-catalog/internal/model"
)

func TestUserCreateAndGet(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	user := seedUser(t, db, "alice@example.com")
	if user.ID == "" {
		t.Fatal("Create() did not assign an ID")
	}

	byID, err := db.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", byID.Email, "alice@example.com")
	}

	byEmail, err := db.Users().GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("GetByEmail().ID = %q, want %q", byEmail.ID, user.ID)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := testDB(t)

	seedUser(t, db, "alice@example.com")

	dup := &model.User{Email: "alice@example.com", Name: "Other", PasswordHash: "x"}
	err := db.Users().Create(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate Create() error = %v, want ErrConflict", err)
	}
}

func TestUserGet_NotFound(t *testing.T) {
	db := testDB(t)

	if _, err := db.Users().GetByID(context.Background(), "nope"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
	if _, err := db.Users().GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestUserUpsertGoogle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first := &model.User{Email: "bob@example.com", Name: "Bob", GoogleID: "g-123"}
	if err := db.Users().UpsertGoogle(ctx, first); err != nil {
		t.Fatalf("first UpsertGoogle() error = %v", err)
	}
	if first.ID == "" {
		t.Fatal("UpsertGoogle() did not assign an ID on insert")
	}

	// Same Google subject, new profile data: same row, refreshed fields.
	second := &model.User{Email: "bob@new.example.com", Name: "Bobby", GoogleID: "g-123"}
	if err := db.Users().UpsertGoogle(ctx, second); err != nil {
		t.Fatalf("second UpsertGoogle() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("returning upsert got ID %q, want %q", second.ID, first.ID)
	}

	stored, err := db.Users().GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Name != "Bobby" {
		t.Errorf("Name = %q, want refreshed %q", stored.Name, "Bobby")
	}
	if stored.Email != "bob@new.example.com" {
		t.Errorf("Email = %q, want refreshed %q", stored.Email, "bob@new.example.com")
	}
}

// Password accounts have an empty google_id; an OAuth login with a new
// subject must never collide with them.
func TestUserUpsertGoogle_IgnoresPasswordAccounts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	password := seedUser(t, db, "alice@example.com") // google_id = ""

	oauth := &model.User{Email: "oauth@example.com", Name: "OAuth", GoogleID: "g-456"}
	if err := db.Users().UpsertGoogle(ctx, oauth); err != nil {
		t.Fatalf("UpsertGoogle() error = %v", err)
	}
	if oauth.ID == password.ID {
		t.Error("OAuth upsert matched a password account with empty google_id")
	}
}
