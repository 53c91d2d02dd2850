package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sakif/video-catalog/internal/auth"
	"github.com/sakif/video-catalog/internal/service"
)

// VideoHandler manages CRUD operations for cataloged videos.
type VideoHandler struct {
	videos *service.VideoService
	logger *slog.Logger
}

func NewVideoHandler(videos *service.VideoService, logger *slog.Logger) *VideoHandler {
	return &VideoHandler{videos: videos, logger: logger}
}

// videoRequest is the write payload for both create and update.
// PublishedAt is RFC 3339; empty means "now" on create and "unchanged"
// on update. CategoryID empty means auto-match on create, clear on update.
type videoRequest struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
	CategoryID  string `json:"categoryId"`
}

// HandleCreate catalogs a video by hand.
//
// HTTP: POST /api/videos
// REQUEST BODY: {"videoId": "lJaHSbygvTM", "title": "...", ...}
//
// Creation runs through the same ingest upsert as imports: posting the
// same videoId twice updates the first row instead of erroring, and an
// omitted categoryId triggers keyword matching.
func (h *VideoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req videoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	publishedAt := time.Now().UTC()
	if req.PublishedAt != "" {
		t, err := time.Parse(time.RFC3339, req.PublishedAt)
		if err != nil {
			writeBadRequest(w, "publishedAt must be RFC 3339 (e.g. 2025-01-15T12:00:00Z)")
			return
		}
		publishedAt = t
	}

	video, err := h.videos.Ingest(r.Context(), userID, req.VideoID, req.Title, req.Description, publishedAt, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, video)
}

// HandleList returns the caller's videos, newest published first.
//
// HTTP: GET /api/videos?q=karaoke&limit=20&offset=0
//
// q searches title and description as a substring. limit defaults to 20
// and caps at 100; offset pages through the result.
func (h *VideoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	videos, err := h.videos.List(r.Context(), userID, query.Get("q"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, videos)
}

// HandleGet returns one video.
//
// HTTP: GET /api/videos/{id}
func (h *VideoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	video, err := h.videos.GetByID(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, video)
}

// HandleUpdate edits a video's metadata.
//
// HTTP: PUT /api/videos/{id}
//
// Unlike create, an empty categoryId here CLEARS the assignment rather
// than re-running the matcher — an edit is an explicit statement of what
// the record should look like.
func (h *VideoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req videoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	var publishedAt time.Time // zero = keep stored value
	if req.PublishedAt != "" {
		t, err := time.Parse(time.RFC3339, req.PublishedAt)
		if err != nil {
			writeBadRequest(w, "publishedAt must be RFC 3339 (e.g. 2025-01-15T12:00:00Z)")
			return
		}
		publishedAt = t
	}

	video, err := h.videos.Update(r.Context(), userID, r.PathValue("id"), req.Title, req.Description, publishedAt, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, video)
}

// HandleDelete soft-deletes a video.
//
// HTTP: DELETE /api/videos/{id}
func (h *VideoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	if err := h.videos.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
