package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/video-catalog/internal/apperror"
	"github.com/sakif/video-catalog/internal/model"
	"github.com/sakif/video-catalog/internal/youtube"
)

func TestImportHandler_ImportVideo(t *testing.T) {
	env := newTestEnv(t)
	env.platform.byID["yt-abc"] = &youtube.Item{
		VideoID:     "yt-abc",
		Title:       "Fetched Title",
		PublishedAt: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
	}

	t.Run("known video", func(t *testing.T) {
		rr := request(env.userID, http.MethodPost, "/api/videos/import",
			`{"videoId":"yt-abc"}`, env.imports.HandleImportVideo)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var video model.Video
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&video))
		assert.Equal(t, "Fetched Title", video.Title)
		assert.Equal(t, env.userID, video.UserID)
	})

	t.Run("unknown video is 404", func(t *testing.T) {
		rr := request(env.userID, http.MethodPost, "/api/videos/import",
			`{"videoId":"yt-missing"}`, env.imports.HandleImportVideo)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		rr := request(env.userID, http.MethodPost, "/api/videos/import", `{`, env.imports.HandleImportVideo)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestImportHandler_ImportChannel(t *testing.T) {
	env := newTestEnv(t)
	env.platform.page = []youtube.Item{
		{VideoID: "yt-1", Title: "In Window", PublishedAt: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)},
		{VideoID: "yt-2", Title: "Too Old", PublishedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	t.Run("counts imported videos", func(t *testing.T) {
		body := `{"channelId":"@somevtuber","from":"2025-01-01","to":"2025-01-31"}`
		rr := request(env.userID, http.MethodPost, "/api/videos/import/channel", body, env.imports.HandleImportChannel)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Imported int `json:"imported"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, 1, resp.Imported)
	})

	t.Run("bad date is 400", func(t *testing.T) {
		body := `{"channelId":"@somevtuber","from":"January 1st","to":"2025-01-31"}`
		rr := request(env.userID, http.MethodPost, "/api/videos/import/channel", body, env.imports.HandleImportChannel)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("inverted window is 422", func(t *testing.T) {
		body := `{"channelId":"@somevtuber","from":"2025-01-31","to":"2025-01-01"}`
		rr := request(env.userID, http.MethodPost, "/api/videos/import/channel", body, env.imports.HandleImportChannel)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("platform failure is 500 upstream_error", func(t *testing.T) {
		env.platform.pageErr = apperror.Upstream("the API is down")
		defer func() { env.platform.pageErr = nil }()

		body := `{"channelId":"@somevtuber","from":"2025-01-01","to":"2025-01-31"}`
		rr := request(env.userID, http.MethodPost, "/api/videos/import/channel", body, env.imports.HandleImportChannel)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)

		var resp struct {
			Error string `json:"error"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "upstream_error", resp.Error)
	})
}
