package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sakif/video-catalog/internal/apperror"
)

func newTestCategoryService(t *testing.T) (*CategoryService, *mockCategoryRepo) {
	t.Helper()
	repo := newMockCategoryRepo()
	svc := NewCategoryService(repo, testLogger())
	return svc, repo
}

func TestCategoryCreate(t *testing.T) {
	svc, _ := newTestCategoryService(t)

	cat, err := svc.Create(context.Background(), "user-1", "  Gaming  ", []string{" apex ", "", "valorant"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if cat.Name != "Gaming" {
		t.Errorf("Name = %q, want trimmed %q", cat.Name, "Gaming")
	}
	// Keywords are trimmed and empties dropped, order preserved.
	want := []string{"apex", "valorant"}
	if !reflect.DeepEqual(cat.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", cat.Keywords, want)
	}
}

func TestCategoryCreate_Validation(t *testing.T) {
	svc, _ := newTestCategoryService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", "   ", nil); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("blank name error = %v, want ErrValidation", err)
	}

	long := make([]byte, MaxCategoryNameLength+1)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := svc.Create(ctx, "user-1", string(long), nil); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("oversized name error = %v, want ErrValidation", err)
	}
}

func TestCategoryCreate_DuplicateNamePerOwner(t *testing.T) {
	svc, _ := newTestCategoryService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", "Gaming", nil); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, "user-1", "Gaming", nil); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate Create() error = %v, want ErrConflict", err)
	}

	// Uniqueness is per owner — another user can reuse the name.
	if _, err := svc.Create(ctx, "user-2", "Gaming", nil); err != nil {
		t.Errorf("other owner Create() error = %v", err)
	}
}

func TestCategoryList_StableOrder(t *testing.T) {
	svc, _ := newTestCategoryService(t)
	ctx := context.Background()

	names := []string{"Gaming", "Music", "Chatting"}
	for _, name := range names {
		if _, err := svc.Create(ctx, "user-1", name, nil); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	got, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for i, name := range names {
		if got[i].Name != name {
			t.Errorf("List()[%d].Name = %q, want %q (creation order)", i, got[i].Name, name)
		}
	}
}

func TestCategoryUpdate_OwnershipEnforced(t *testing.T) {
	svc, _ := newTestCategoryService(t)
	ctx := context.Background()

	cat, err := svc.Create(ctx, "user-1", "Gaming", []string{"apex"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Update(ctx, "user-2", cat.ID, "Hijacked", nil); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("stranger Update() error = %v, want ErrForbidden", err)
	}

	updated, err := svc.Update(ctx, "user-1", cat.ID, "Games", []string{"zelda"})
	if err != nil {
		t.Fatalf("owner Update() error = %v", err)
	}
	if updated.Name != "Games" {
		t.Errorf("Name = %q, want %q", updated.Name, "Games")
	}
}

func TestCategoryDelete(t *testing.T) {
	svc, _ := newTestCategoryService(t)
	ctx := context.Background()

	cat, err := svc.Create(ctx, "user-1", "Gaming", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, "user-2", cat.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("stranger Delete() error = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, "user-1", cat.ID); err != nil {
		t.Fatalf("owner Delete() error = %v", err)
	}
	if _, err := svc.GetByID(ctx, "user-1", cat.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}
