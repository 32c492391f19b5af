package lastfm

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
)

// UserService provides read access to a user's listening data.
type UserService struct {
	client *Client
}

// MaxPageSize is the largest page size user.getrecenttracks accepts.
const MaxPageSize = 1000

// RecentTracksParams selects a page of a user's scrobble history.
type RecentTracksParams struct {
	User  string
	From  int64 // Unix seconds, inclusive lower bound; zero for no bound
	To    int64 // Unix seconds, inclusive upper bound; zero for no bound
	Limit int   // Records per page, capped at MaxPageSize; zero for default
	Page  int   // 1-based page number; zero for page 1
}

// recentTracksEnvelope mirrors the JSON response of user.getrecenttracks.
// The now-playing entry carries @attr.nowplaying and no date element.
type recentTracksEnvelope struct {
	RecentTracks struct {
		Track []struct {
			Artist struct {
				Name string `json:"#text"`
			} `json:"artist"`
			Album struct {
				Name string `json:"#text"`
				MBID string `json:"mbid"`
			} `json:"album"`
			Name string `json:"name"`
			Date *struct {
				UTS string `json:"uts"`
			} `json:"date"`
			Attr *struct {
				NowPlaying string `json:"nowplaying"`
			} `json:"@attr"`
		} `json:"track"`
		Attr struct {
			Page       int `json:"page,string"`
			TotalPages int `json:"totalPages,string"`
			Total      int `json:"total,string"`
		} `json:"@attr"`
	} `json:"recenttracks"`
}

// RecentTracks fetches one page of a user's scrobble history.
//
// The returned page includes the currently playing track if one exists;
// callers doing historical work must filter on RecentTrack.Historical.
func (u *UserService) RecentTracks(ctx context.Context, params RecentTracksParams) (*RecentTracksPage, error) {
	if params.User == "" {
		return nil, fmt.Errorf("lastfm: user is required")
	}

	limit := params.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}

	reqParams := map[string]string{
		"user":  params.User,
		"limit": strconv.Itoa(limit),
		"page":  strconv.Itoa(page),
	}
	if params.From > 0 {
		reqParams["from"] = strconv.FormatInt(params.From, 10)
	}
	if params.To > 0 {
		reqParams["to"] = strconv.FormatInt(params.To, 10)
	}

	body, err := u.client.call(ctx, http.MethodGet, "user.getrecenttracks", reqParams, false)
	if err != nil {
		return nil, err
	}

	var envelope recentTracksEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse recent tracks response: %w", err)
	}

	result := &RecentTracksPage{
		Tracks:     make([]RecentTrack, 0, len(envelope.RecentTracks.Track)),
		Page:       envelope.RecentTracks.Attr.Page,
		TotalPages: envelope.RecentTracks.Attr.TotalPages,
		Total:      envelope.RecentTracks.Attr.Total,
	}

	for _, t := range envelope.RecentTracks.Track {
		track := RecentTrack{
			Artist:  t.Artist.Name,
			Album:   t.Album.Name,
			AlbumID: t.Album.MBID,
			Track:   t.Name,
		}
		if t.Attr != nil && t.Attr.NowPlaying == "true" {
			track.NowPlaying = true
		} else if t.Date != nil {
			ts, err := strconv.ParseInt(t.Date.UTS, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("lastfm: invalid track timestamp %q: %w", t.Date.UTS, err)
			}
			track.Timestamp = ts
		}
		result.Tracks = append(result.Tracks, track)
	}

	return result, nil
}

// GetInfo fetches a user's profile.
func (u *UserService) GetInfo(ctx context.Context, user string) (*UserInfo, error) {
	if user == "" {
		return nil, fmt.Errorf("lastfm: user is required")
	}

	body, err := u.client.call(ctx, http.MethodGet, "user.getInfo", map[string]string{
		"user": user,
	}, false)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		User struct {
			Name       string `json:"name"`
			RealName   string `json:"realname"`
			URL        string `json:"url"`
			Country    string `json:"country"`
			Playcount  string `json:"playcount"`
			Registered struct {
				UnixTime string `json:"unixtime"`
			} `json:"registered"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse user info response: %w", err)
	}

	playcount, _ := strconv.ParseInt(envelope.User.Playcount, 10, 64)
	registered, _ := strconv.ParseInt(envelope.User.Registered.UnixTime, 10, 64)

	return &UserInfo{
		Name:       envelope.User.Name,
		RealName:   envelope.User.RealName,
		URL:        envelope.User.URL,
		Country:    envelope.User.Country,
		Playcount:  playcount,
		Registered: registered,
	}, nil
}

// TopRanked fetches one of the user's top lists, selected by kind.
//
// The three upstream methods (user.getTopArtists, user.getTopAlbums,
// user.getTopTracks) share pagination and ranking semantics and differ only
// in the shape of each entry, so one entry point covers all of them.
// Period accepts the upstream values (overall, 7day, 1month, 3month,
// 6month, 12month); an empty period means overall.
func (u *UserService) TopRanked(ctx context.Context, user string, kind RankedKind, period string, limit int) ([]RankedItem, error) {
	if user == "" {
		return nil, fmt.Errorf("lastfm: user is required")
	}

	params := map[string]string{
		"user": user,
	}
	if period != "" {
		params["period"] = period
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var method string
	switch kind {
	case RankedArtists:
		method = "user.getTopArtists"
	case RankedAlbums:
		method = "user.getTopAlbums"
	case RankedTracks:
		method = "user.getTopTracks"
	default:
		return nil, fmt.Errorf("lastfm: unknown ranked kind %d", int(kind))
	}

	body, err := u.client.call(ctx, http.MethodGet, method, params, false)
	if err != nil {
		return nil, err
	}

	items, err := parseRanked(body, kind)
	if err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse %s response: %w", method, err)
	}
	return items, nil
}

// rankedEntry is the shared shape of one top-list element across the three
// envelopes. Artist is absent for top artists (the entry is the artist).
type rankedEntry struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
	Playcount string `json:"playcount"`
	Attr      struct {
		Rank string `json:"rank"`
	} `json:"@attr"`
}

// parseRanked decodes a top-list envelope into RankedItems.
func parseRanked(body []byte, kind RankedKind) ([]RankedItem, error) {
	var entries []rankedEntry

	switch kind {
	case RankedArtists:
		var envelope struct {
			TopArtists struct {
				Artist []rankedEntry `json:"artist"`
			} `json:"topartists"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, err
		}
		entries = envelope.TopArtists.Artist
	case RankedAlbums:
		var envelope struct {
			TopAlbums struct {
				Album []rankedEntry `json:"album"`
			} `json:"topalbums"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, err
		}
		entries = envelope.TopAlbums.Album
	case RankedTracks:
		var envelope struct {
			TopTracks struct {
				Track []rankedEntry `json:"track"`
			} `json:"toptracks"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, err
		}
		entries = envelope.TopTracks.Track
	}

	items := make([]RankedItem, 0, len(entries))
	for _, e := range entries {
		rank, _ := strconv.Atoi(e.Attr.Rank)
		playcount, _ := strconv.ParseInt(e.Playcount, 10, 64)
		items = append(items, RankedItem{
			Rank:      rank,
			Name:      e.Name,
			Artist:    e.Artist.Name,
			URL:       e.URL,
			Playcount: playcount,
		})
	}
	return items, nil
}
