package reconcile

import (
	"context"
	"time"

	"github.com/jfmyers9/scrobblemend/pkg/lastfm"
)

// Recreator submits corrected scrobbles through the signed API.
type Recreator struct {
	scrobbles *lastfm.ScrobbleService

	// now is replaceable in tests
	now func() time.Time
}

// NewRecreator creates a recreator.
func NewRecreator(client *lastfm.Client) *Recreator {
	return &Recreator{
		scrobbles: client.Scrobble(),
		now:       time.Now,
	}
}

// Recreate submits one corrected scrobble for each deleted original as a
// single batched signed request.
//
// Each corrected entry reuses the original record's timestamp so it
// occupies the same point in the listening timeline. A record that somehow
// lacks a timestamp falls back to the current time; that is a degraded but
// defined path, not an error.
func (r *Recreator) Recreate(ctx context.Context, sessionKey string, originals []lastfm.RecentTrack, c Criteria) (*lastfm.ScrobbleResult, error) {
	corrected := make([]lastfm.Scrobble, 0, len(originals))
	for _, original := range originals {
		timestamp := original.Timestamp
		if timestamp == 0 {
			timestamp = r.now().Unix()
		}
		corrected = append(corrected, lastfm.Scrobble{
			Artist:    c.CorrectedArtist,
			Track:     c.CorrectedTrack,
			Album:     c.CorrectedAlbum,
			Timestamp: timestamp,
		})
	}

	result, err := r.scrobbles.SubmitBatch(ctx, sessionKey, corrected)
	if err != nil {
		return nil, &SubmitError{Err: err}
	}
	return result, nil
}
