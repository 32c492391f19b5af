package lastfm

// Session represents an authenticated session from auth.getSession.
type Session struct {
	Name       string `json:"name"`       // Last.fm username
	Key        string `json:"key"`        // Session key for signed requests
	Subscriber bool   `json:"subscriber"` // Whether the user is a subscriber
}

// Scrobble is a single play event for submission via track.scrobble.
type Scrobble struct {
	Artist    string `json:"artist"`
	Track     string `json:"track"`
	Album     string `json:"album,omitempty"`
	Timestamp int64  `json:"timestamp"` // Unix seconds when the track was played
}

// ScrobbleResult summarises a track.scrobble submission.
type ScrobbleResult struct {
	Accepted int `json:"accepted"`
	Ignored  int `json:"ignored"`
}

// RecentTrack is one entry from user.getrecenttracks.
//
// A track that is currently playing has NowPlaying set and no Timestamp;
// such records are not part of the historical record and must be excluded
// from matching, deletion and recreation.
type RecentTrack struct {
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	AlbumID    string `json:"albumId,omitempty"` // MusicBrainz album id, may be empty
	Track      string `json:"track"`
	Timestamp  int64  `json:"timestamp"` // Unix seconds; zero when NowPlaying
	NowPlaying bool   `json:"nowPlaying,omitempty"`
}

// Historical reports whether the record is a completed scrobble.
func (t RecentTrack) Historical() bool {
	return !t.NowPlaying && t.Timestamp > 0
}

// RecentTracksPage is one page of a user's scrobble history.
type RecentTracksPage struct {
	Tracks     []RecentTrack `json:"tracks"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Total      int           `json:"total"`
}

// UserInfo is the profile data from user.getInfo.
type UserInfo struct {
	Name       string `json:"name"`
	RealName   string `json:"realName,omitempty"`
	URL        string `json:"url"`
	Country    string `json:"country,omitempty"`
	Playcount  int64  `json:"playcount"`
	Registered int64  `json:"registered"` // Unix seconds
}

// RankedKind selects which top list TopRanked fetches.
type RankedKind int

const (
	RankedArtists RankedKind = iota
	RankedAlbums
	RankedTracks
)

// String returns the kind name used in logs and route parameters.
func (k RankedKind) String() string {
	switch k {
	case RankedArtists:
		return "artists"
	case RankedAlbums:
		return "albums"
	case RankedTracks:
		return "tracks"
	default:
		return "unknown"
	}
}

// RankedItem is one entry of a user's top artists, albums or tracks.
// Artist is empty for the artists kind (the item itself is the artist).
type RankedItem struct {
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	Artist    string `json:"artist,omitempty"`
	URL       string `json:"url,omitempty"`
	Playcount int64  `json:"playcount"`
}

// AlbumMatch is one result from album.search.
type AlbumMatch struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
	URL    string `json:"url,omitempty"`
}

// AlbumInfo is the detail response from album.getinfo.
type AlbumInfo struct {
	Name   string       `json:"name"`
	Artist string       `json:"artist"`
	URL    string       `json:"url,omitempty"`
	Tracks []AlbumTrack `json:"tracks,omitempty"`
}

// AlbumTrack is one track listing inside AlbumInfo.
type AlbumTrack struct {
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	Duration int    `json:"duration"` // Seconds, zero when unknown
}
