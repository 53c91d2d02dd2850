package handler_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/sakif/video-catalog/internal/apperror"
	"github.com/sakif/video-catalog/internal/auth"
	"github.com/sakif/video-catalog/internal/handler"
	"github.com/sakif/video-catalog/internal/model"
	"github.com/sakif/video-catalog/internal/repository/sqlite"
	"github.com/sakif/video-catalog/internal/service"
	"github.com/sakif/video-catalog/internal/youtube"
)

// Handler tests run against a real in-memory SQLite database rather than
// repository mocks — the handlers sit at the top of the stack, so these
// double as end-to-end tests of handler + service + storage. Only the
// external video platform is faked.

// testEnv bundles the wired handlers plus seeded users.
type testEnv struct {
	auths      *handler.AuthHandler
	categories *handler.CategoryHandler
	videos     *handler.VideoHandler
	imports    *handler.ImportHandler

	platform *stubPlatform
	userID   string // seeded account
	otherID  string // a second account, for ownership tests
}

// stubPlatform is a canned VideoPlatform for the import handlers.
type stubPlatform struct {
	playlistID string
	page       []youtube.Item
	byID       map[string]*youtube.Item
	pageErr    error
}

func (s *stubPlatform) ResolveUploadsPlaylist(_ context.Context, channelID string) (string, error) {
	return s.playlistID, nil
}

func (s *stubPlatform) PlaylistPage(_ context.Context, playlistID, cursor string) ([]youtube.Item, string, error) {
	if s.pageErr != nil {
		return nil, "", s.pageErr
	}
	return s.page, "", nil
}

func (s *stubPlatform) VideoByID(_ context.Context, videoID string) (*youtube.Item, error) {
	item, ok := s.byID[videoID]
	if !ok {
		return nil, apperror.NotFound("video", videoID)
	}
	result := *item
	return &result, nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)
	google := auth.NewGoogleProvider("test-client", "test-secret", "http://localhost:8080/auth/google/callback")

	platform := &stubPlatform{playlistID: "UUtest", byID: make(map[string]*youtube.Item)}

	authSvc := service.NewAuthService(db.Users(), tokens, passwords, logger)
	categorySvc := service.NewCategoryService(db.Categories(), logger)
	videoSvc := service.NewVideoService(db.Videos(), db.Categories(), logger)
	importSvc := service.NewImportService(platform, videoSvc, logger)

	env := &testEnv{
		auths:      handler.NewAuthHandler(authSvc, google, logger),
		categories: handler.NewCategoryHandler(categorySvc, logger),
		videos:     handler.NewVideoHandler(videoSvc, logger),
		imports:    handler.NewImportHandler(importSvc, logger),
		platform:   platform,
	}

	env.userID = seedUser(t, db, "alice@example.com")
	env.otherID = seedUser(t, db, "bob@example.com")

	return env
}

func seedUser(t *testing.T, db *sqlite.DB, email string) string {
	t.Helper()
	user := &model.User{Email: email, Name: "Test User", PasswordHash: "x"}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", email, err)
	}
	return user.ID
}

// request performs an authenticated request against a single handler
// function, the same way the router would after RequireAuth ran.
func request(userID string, method, target, body string, fn http.HandlerFunc) *httptest.ResponseRecorder {
	return requestWithID(userID, method, target, "", body, fn)
}

// requestWithID additionally sets the {id} path value, which chi's router
// would normally populate.
func requestWithID(userID, method, target, id, body string, fn http.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if id != "" {
		req.SetPathValue("id", id)
	}
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	rr := httptest.NewRecorder()
	fn(rr, req)
	return rr
}

func rfc3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
