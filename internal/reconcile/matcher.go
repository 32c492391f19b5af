package reconcile

import (
	"github.com/jfmyers9/scrobblemend/pkg/lastfm"
)

// Match filters records down to the subset matching the criteria's
// original triple. Comparisons are exact and case-sensitive; input order is
// preserved. Records without a completed timestamp (the now-playing entry)
// never match.
//
// An empty result is not an error: zero matches means there is nothing to
// delete or recreate.
func Match(records []lastfm.RecentTrack, c Criteria) []lastfm.RecentTrack {
	var matches []lastfm.RecentTrack
	for _, record := range records {
		if !record.Historical() {
			continue
		}
		if record.Artist == c.OriginalArtist &&
			record.Album == c.OriginalAlbum &&
			record.Track == c.OriginalTrack {
			matches = append(matches, record)
		}
	}
	return matches
}
