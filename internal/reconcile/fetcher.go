package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jfmyers9/scrobblemend/pkg/lastfm"
)

// Fetcher retrieves a user's scrobble history from Last.fm.
type Fetcher struct {
	client *lastfm.Client
	logger zerolog.Logger

	// now is replaceable in tests
	now func() time.Time
}

// NewFetcher creates a history fetcher.
func NewFetcher(client *lastfm.Client, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		logger: logger.With().Str("component", "fetcher").Logger(),
		now:    time.Now,
	}
}

// FetchWindow retrieves all scrobbles between since and now, in page order.
//
// Pages are fetched strictly sequentially: the total page count is only
// known after page 1, and pacing the requests keeps us clear of upstream
// rate limits. A failed page aborts the whole fetch; partial history is
// discarded rather than returned as truncated results.
//
// The now-playing entry, if present, is retained; consumers doing
// historical work must filter on RecentTrack.Historical.
func (f *Fetcher) FetchWindow(ctx context.Context, username string, since time.Time) ([]lastfm.RecentTrack, error) {
	from := since.Unix()
	to := f.now().Unix()

	first, err := f.client.User().RecentTracks(ctx, lastfm.RecentTracksParams{
		User: username,
		From: from,
		To:   to,
		Page: 1,
	})
	if err != nil {
		return nil, &FetchError{Page: 1, Err: err}
	}

	tracks := make([]lastfm.RecentTrack, 0, len(first.Tracks))
	seen := make(map[string]struct{})
	tracks = appendDeduped(tracks, seen, first.Tracks)

	f.logger.Debug().
		Str("user", username).
		Int("totalPages", first.TotalPages).
		Msg("fetched first history page")

	for page := 2; page <= first.TotalPages; page++ {
		next, err := f.client.User().RecentTracks(ctx, lastfm.RecentTracksParams{
			User: username,
			From: from,
			To:   to,
			Page: page,
		})
		if err != nil {
			return nil, &FetchError{Page: page, Err: err}
		}
		tracks = appendDeduped(tracks, seen, next.Tracks)
	}

	return tracks, nil
}

// fetchAllWorkers bounds the fan-out of FetchAll.
const fetchAllWorkers = 5

// FetchAll retrieves a user's complete scrobble history.
//
// Unlike FetchWindow it fans pages out concurrently: the page count is
// derived from the profile's play count up front, and statistical
// aggregation does not care about ordering, so latency wins over pacing
// here. Any page failure aborts the fetch.
func (f *Fetcher) FetchAll(ctx context.Context, username string) ([]lastfm.RecentTrack, error) {
	info, err := f.client.User().GetInfo(ctx, username)
	if err != nil {
		return nil, &FetchError{Page: 0, Err: fmt.Errorf("failed to resolve play count: %w", err)}
	}

	totalPages := int((info.Playcount + lastfm.MaxPageSize - 1) / lastfm.MaxPageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pages := make([][]lastfm.RecentTrack, totalPages)
	jobs := make(chan int, totalPages)

	var mu sync.Mutex
	var firstErr *FetchError

	var wg sync.WaitGroup
	for w := 0; w < fetchAllWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				result, err := f.client.User().RecentTracks(ctx, lastfm.RecentTracksParams{
					User: username,
					Page: page,
				})
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = &FetchError{Page: page, Err: err}
					}
					mu.Unlock()
					cancel()
					return
				}
				pages[page-1] = result.Tracks
			}
		}()
	}

	for page := 1; page <= totalPages; page++ {
		jobs <- page
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	tracks := make([]lastfm.RecentTrack, 0, info.Playcount)
	seen := make(map[string]struct{})
	for _, page := range pages {
		tracks = appendDeduped(tracks, seen, page)
	}

	f.logger.Debug().
		Str("user", username).
		Int("pages", totalPages).
		Int("tracks", len(tracks)).
		Msg("fetched full history")

	return tracks, nil
}

// appendDeduped appends tracks not already seen. Adjacent pages of the
// recent-tracks endpoint can overlap when scrobbles arrive mid-pagination,
// so records are keyed by artist, track and timestamp.
func appendDeduped(dst []lastfm.RecentTrack, seen map[string]struct{}, src []lastfm.RecentTrack) []lastfm.RecentTrack {
	for _, t := range src {
		key := fmt.Sprintf("%s\x00%s\x00%d", t.Artist, t.Track, t.Timestamp)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, t)
	}
	return dst
}
