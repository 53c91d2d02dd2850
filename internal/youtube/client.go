// Package youtube is a minimal client for the YouTube Data API v3,
// covering the three calls the catalog needs: channel lookup, paged
// playlist listing, and single-video lookup.
//
// ANTI-CORRUPTION BOUNDARY:
// The Data API nests everything under snippet/contentDetails envelopes.
// This package parses those eagerly into the flat Item struct and never
// lets the external schema leak past it — the service layer only ever
// sees {VideoID, Title, Description, PublishedAt}.
//
// ERROR CONTRACT:
// A transport failure or non-200 API response becomes apperror.ErrUpstream
// (the caller maps it to 500). An empty result set — channel or video that
// simply doesn't exist — becomes apperror.ErrNotFound (mapped to 404).
// The two are never conflated.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sakif/video-catalog/internal/apperror"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// PageSize is the playlistItems page size. 50 is the API maximum —
	// fewer pages means fewer quota units per import.
	PageSize = 50
)

// Item is the flattened shape of one upstream video.
type Item struct {
	VideoID     string
	Title       string
	Description string
	PublishedAt time.Time
}

// Client talks to the YouTube Data API v3.
//
// Requests are rate-limited client-side (token bucket via
// golang.org/x/time/rate) so a large channel import cannot burn through
// the daily API quota in one burst.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a Client with the given API key.
// baseURL overrides the Google endpoint — tests point it at an httptest
// server; pass "" for production.
func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 1), // 10 req/s, no burst
	}
}

// ResolveUploadsPlaylist returns the id of a channel's uploads playlist.
//
// channelID may be a raw channel id ("UCxxxx") or a handle ("@someone") —
// handles are recognized by their "@" prefix and sent as forHandle, ids
// as id, matching how the Data API distinguishes the two.
func (c *Client) ResolveUploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	if strings.HasPrefix(channelID, "@") {
		params.Set("forHandle", channelID)
	} else {
		params.Set("id", channelID)
	}

	var body struct {
		Items []struct {
			ContentDetails struct {
				RelatedPlaylists struct {
					Uploads string `json:"uploads"`
				} `json:"relatedPlaylists"`
			} `json:"contentDetails"`
		} `json:"items"`
	}

	if err := c.get(ctx, "/channels", params, &body); err != nil {
		return "", err
	}

	if len(body.Items) == 0 {
		return "", apperror.NotFound("channel", channelID)
	}

	return body.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

// PlaylistPage fetches one page of playlist items.
//
// cursor is the pageToken from the previous page; "" fetches the first
// page. The returned next cursor is "" on the last page. Items come back
// in the API's order — reverse-chronological for uploads playlists, which
// the import window filter depends on.
func (c *Client) PlaylistPage(ctx context.Context, playlistID, cursor string) ([]Item, string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", fmt.Sprintf("%d", PageSize))
	if cursor != "" {
		params.Set("pageToken", cursor)
	}

	var body struct {
		Items []struct {
			Snippet playlistSnippet `json:"snippet"`
		} `json:"items"`
		NextPageToken string `json:"nextPageToken"`
	}

	if err := c.get(ctx, "/playlistItems", params, &body); err != nil {
		return nil, "", err
	}

	items := make([]Item, 0, len(body.Items))
	for _, raw := range body.Items {
		item, err := raw.Snippet.flatten()
		if err != nil {
			return nil, "", err
		}
		items = append(items, item)
	}

	return items, body.NextPageToken, nil
}

// VideoByID fetches a single video's metadata by its natural id.
// Returns apperror.ErrNotFound when the id matches nothing upstream.
func (c *Client) VideoByID(ctx context.Context, videoID string) (*Item, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", videoID)

	var body struct {
		Items []struct {
			ID      string       `json:"id"`
			Snippet videoSnippet `json:"snippet"`
		} `json:"items"`
	}

	if err := c.get(ctx, "/videos", params, &body); err != nil {
		return nil, err
	}

	if len(body.Items) == 0 {
		return nil, apperror.NotFound("video", videoID)
	}

	raw := body.Items[0]
	publishedAt, err := parseTime(raw.Snippet.PublishedAt)
	if err != nil {
		return nil, err
	}

	return &Item{
		VideoID:     videoID,
		Title:       raw.Snippet.Title,
		Description: raw.Snippet.Description,
		PublishedAt: publishedAt,
	}, nil
}

// playlistSnippet is the raw playlistItems envelope. The video id lives
// under resourceId, not at the top level — one of the quirks this package
// exists to hide.
type playlistSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
	ResourceID  struct {
		VideoID string `json:"videoId"`
	} `json:"resourceId"`
}

func (s playlistSnippet) flatten() (Item, error) {
	publishedAt, err := parseTime(s.PublishedAt)
	if err != nil {
		return Item{}, err
	}
	return Item{
		VideoID:     s.ResourceID.VideoID,
		Title:       s.Title,
		Description: s.Description,
		PublishedAt: publishedAt,
	}, nil
}

type videoSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
}

// get performs one rate-limited API request and decodes the JSON body.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperror.Upstream(fmt.Sprintf("youtube: rate limiter: %v", err))
	}

	params.Set("key", c.apiKey)
	apiURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("youtube: creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.Upstream(fmt.Sprintf("youtube: calling %s: %v", path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperror.Upstream(fmt.Sprintf("youtube: %s returned status %d", path, resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return apperror.Upstream(fmt.Sprintf("youtube: decoding %s response: %v", path, err))
	}

	return nil
}

// parseTime parses the API's RFC 3339 publishedAt timestamps.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, apperror.Upstream(fmt.Sprintf("youtube: bad publishedAt %q: %v", s, err))
	}
	return t, nil
}
