package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/video-catalog/internal/auth"
	"github.com/sakif/video-catalog/internal/service"
)

// dateLayout is the wire format for import window bounds. Dates, not
// timestamps — the service expands them to whole days.
const dateLayout = "2006-01-02"

// ImportHandler exposes the two platform-import operations: a single
// video by id, and a channel's uploads over a date window.
type ImportHandler struct {
	imports *service.ImportService
	logger  *slog.Logger
}

func NewImportHandler(imports *service.ImportService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{imports: imports, logger: logger}
}

type importVideoRequest struct {
	VideoID string `json:"videoId"`
}

type importChannelRequest struct {
	ChannelID string `json:"channelId"` // raw channel id or "@handle"
	From      string `json:"from"`      // inclusive, YYYY-MM-DD
	To        string `json:"to"`        // inclusive, YYYY-MM-DD
}

type importChannelResponse struct {
	Imported int `json:"imported"`
}

// HandleImportVideo fetches one video from the platform and catalogs it.
//
// HTTP: POST /api/videos/import
// REQUEST BODY: {"videoId": "lJaHSbygvTM"}
//
// Responds 201 with the cataloged video. An unknown id is a 404; a
// platform API failure is a 500.
func (h *ImportHandler) HandleImportVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req importVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	video, err := h.imports.ImportVideo(r.Context(), userID, req.VideoID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, video)
}

// HandleImportChannel imports a channel's uploads published within the
// inclusive [from, to] date window.
//
// HTTP: POST /api/videos/import/channel
// REQUEST BODY: {"channelId": "@somevtuber", "from": "2025-01-01", "to": "2025-01-31"}
//
// Responds 200 with {"imported": N}. A failure partway through still
// leaves the earlier pages' videos cataloged; re-running the same import
// is safe.
func (h *ImportHandler) HandleImportChannel(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req importChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		writeBadRequest(w, "from must be a date (YYYY-MM-DD)")
		return
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		writeBadRequest(w, "to must be a date (YYYY-MM-DD)")
		return
	}

	h.logger.Info("channel import requested",
		slog.String("userID", userID),
		slog.String("channel", req.ChannelID),
	)

	count, err := h.imports.ImportChannel(r.Context(), userID, req.ChannelID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, importChannelResponse{Imported: count})
}
