package reconcile

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jfmyers9/scrobblemend/pkg/lastfm"
)

// DefaultDeleteDelay is the pause between consecutive deletion requests.
const DefaultDeleteDelay = 1 * time.Second

// Deleter removes scrobbles from the user's library via the
// cookie-authenticated website endpoint.
type Deleter struct {
	library *lastfm.LibraryService
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewDeleter creates a deleter that spaces deletion requests at least
// delay apart. A non-positive delay falls back to DefaultDeleteDelay.
func NewDeleter(client *lastfm.Client, delay time.Duration, logger zerolog.Logger) *Deleter {
	if delay <= 0 {
		delay = DefaultDeleteDelay
	}
	return &Deleter{
		library: client.Library(),
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		logger:  logger.With().Str("component", "deleter").Logger(),
	}
}

// DeleteAll removes the given records strictly sequentially, pausing
// between requests to avoid tripping upstream rate limiting.
//
// The first failure aborts the remaining deletions and is returned as a
// *DeleteError carrying the number of records already removed; those are
// not restorable, so callers must not proceed to recreation.
func (d *Deleter) DeleteAll(ctx context.Context, username, cookies string, records []lastfm.RecentTrack) (int, error) {
	deleted := 0
	for _, record := range records {
		if err := d.limiter.Wait(ctx); err != nil {
			return deleted, &DeleteError{Deleted: deleted, Err: err}
		}

		err := d.library.Delete(ctx, username, cookies, lastfm.DeleteScrobble{
			Artist:    record.Artist,
			Track:     record.Track,
			Timestamp: record.Timestamp,
		})
		if err != nil {
			d.logger.Error().
				Err(err).
				Str("artist", record.Artist).
				Str("track", record.Track).
				Int64("timestamp", record.Timestamp).
				Int("deleted", deleted).
				Msg("deletion failed, aborting remaining deletions")
			return deleted, &DeleteError{Deleted: deleted, Err: err}
		}

		deleted++
		d.logger.Debug().
			Str("artist", record.Artist).
			Str("track", record.Track).
			Int64("timestamp", record.Timestamp).
			Msg("deleted scrobble")
	}
	return deleted, nil
}
