package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/video-catalog/internal/apperror"
	"github.com/sakif/video-catalog/internal/model"
	"github.com/sakif/video-catalog/internal/youtube"
)

// VideoPlatform is the slice of the external platform API the import
// service consumes. *youtube.Client satisfies it; tests inject a fake.
type VideoPlatform interface {
	ResolveUploadsPlaylist(ctx context.Context, channelID string) (string, error)
	PlaylistPage(ctx context.Context, playlistID, cursor string) ([]youtube.Item, string, error)
	VideoByID(ctx context.Context, videoID string) (*youtube.Item, error)
}

// ImportService drives imports from the external video platform: single
// videos by id, and whole channels over an inclusive date window.
type ImportService struct {
	platform VideoPlatform
	videos   *VideoService
	logger   *slog.Logger
}

func NewImportService(platform VideoPlatform, videos *VideoService, logger *slog.Logger) *ImportService {
	return &ImportService{
		platform: platform,
		videos:   videos,
		logger:   logger,
	}
}

// ImportVideo fetches one video's metadata upstream and ingests it for
// ownerID. No explicit category is passed, so keyword matching applies.
//
// Error surface: ErrNotFound when the id matches nothing upstream,
// ErrUpstream when the API call itself fails — the handler maps those to
// 404 and 500 respectively.
func (s *ImportService) ImportVideo(ctx context.Context, ownerID, videoID string) (*model.Video, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, apperror.ValidationFailed("videoId", "video id is required")
	}

	item, err := s.platform.VideoByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	return s.videos.Ingest(ctx, ownerID, item.VideoID, item.Title, item.Description, item.PublishedAt, "")
}

// ImportChannel imports every video a channel published inside the
// inclusive [from, to] date window, and returns how many were ingested.
//
// from and to are dates; the effective window runs from the start of
// from's day to the end of to's day, both inclusive, in UTC.
//
// ALGORITHM:
//  1. Resolve the channel's uploads playlist (one lookup; "@handle" and
//     raw channel ids are both accepted).
//  2. Walk the playlist page by page (page size 50). Per item, in API
//     order:
//     - published strictly after the window end  → skip. Newer items are
//       irrelevant but don't end the scan; the API can return items out
//       of strict order across pages.
//     - published strictly before the window start → stop entirely. The
//       uploads feed is reverse-chronological, so everything after this
//       point is older still.
//     - inside the window → ingest (no explicit category, so keyword
//       matching applies) and count it.
//  3. No next-page cursor → end of data.
//
// FAILURE SEMANTICS:
// A failed page fetch aborts the import at that point with ErrUpstream.
// There is no retry and no rollback: videos ingested from earlier pages
// stay committed. Partial progress is deliberate — re-running the import
// is safe because ingest is idempotent.
func (s *ImportService) ImportChannel(ctx context.Context, ownerID, channelID string, from, to time.Time) (int, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return 0, apperror.ValidationFailed("channelId", "channel id is required")
	}
	if to.Before(from) {
		return 0, apperror.ValidationFailed("to", "to date must not be before from date")
	}

	windowStart := startOfDay(from)
	windowEnd := endOfDay(to)

	playlistID, err := s.platform.ResolveUploadsPlaylist(ctx, channelID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("channel import started",
		slog.String("channel", channelID),
		slog.String("playlist", playlistID),
		slog.Time("from", windowStart),
		slog.Time("to", windowEnd),
	)

	it := youtube.NewPlaylistIterator(s.platform, playlistID)

	imported := 0
	finished := false
	for !finished {
		items, ok, err := it.Next(ctx)
		if err != nil {
			// Abort mid-import: whatever earlier pages ingested stays.
			return imported, err
		}
		if !ok {
			break
		}

		for _, item := range items {
			if item.PublishedAt.After(windowEnd) {
				continue
			}
			if item.PublishedAt.Before(windowStart) {
				finished = true
				break
			}

			if _, err := s.videos.Ingest(ctx, ownerID, item.VideoID, item.Title, item.Description, item.PublishedAt, ""); err != nil {
				return imported, fmt.Errorf("ingesting video %s: %w", item.VideoID, err)
			}
			imported++
		}
	}

	s.logger.Info("channel import finished",
		slog.String("channel", channelID),
		slog.Int("imported", imported),
	)

	return imported, nil
}

// startOfDay returns 00:00:00 UTC on t's date.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// endOfDay returns the last nanosecond of t's date in UTC, making the
// window's upper bound inclusive of the whole day.
func endOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
