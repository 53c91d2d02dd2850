package youtube

import "context"

// PageFetcher is the single call the iterator needs. *Client satisfies
// it; tests substitute a canned fetcher.
type PageFetcher interface {
	PlaylistPage(ctx context.Context, playlistID, cursor string) ([]Item, string, error)
}

// PlaylistIterator walks a playlist page by page.
//
// It replaces the classic do/while-with-break-flags pagination loop with
// an explicit finite-state iterator: the cursor state lives here, and the
// consumer's loop body stays free of pagination bookkeeping. That keeps
// the import's early-termination logic unit-testable without HTTP.
//
// Pagination is inherently sequential — page N+1 cannot be fetched until
// page N's cursor is known — so the iterator is not safe for concurrent
// use, and doesn't need to be.
type PlaylistIterator struct {
	fetcher    PageFetcher
	playlistID string
	cursor     string
	done       bool
}

// NewPlaylistIterator creates an iterator positioned before the first page.
func NewPlaylistIterator(fetcher PageFetcher, playlistID string) *PlaylistIterator {
	return &PlaylistIterator{
		fetcher:    fetcher,
		playlistID: playlistID,
	}
}

// Next fetches the next page of items.
//
// ok is false once the feed is exhausted (the previous page carried no
// next-page cursor); after that every call returns (nil, false, nil).
// A fetch error is returned as-is and does not consume the page — though
// the import never retries, so in practice an error ends the walk.
func (it *PlaylistIterator) Next(ctx context.Context) (items []Item, ok bool, err error) {
	if it.done {
		return nil, false, nil
	}

	items, next, err := it.fetcher.PlaylistPage(ctx, it.playlistID, it.cursor)
	if err != nil {
		return nil, false, err
	}

	it.cursor = next
	if next == "" {
		it.done = true
	}

	return items, true, nil
}
