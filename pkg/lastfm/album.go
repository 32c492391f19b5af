package lastfm

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
)

// AlbumService provides album lookups.
type AlbumService struct {
	client *Client
}

// Search looks up albums by name.
func (a *AlbumService) Search(ctx context.Context, album string, limit int) ([]AlbumMatch, error) {
	if album == "" {
		return nil, fmt.Errorf("lastfm: album is required")
	}

	params := map[string]string{
		"album": album,
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	body, err := a.client.call(ctx, http.MethodGet, "album.search", params, false)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Results struct {
			AlbumMatches struct {
				Album []struct {
					Name   string `json:"name"`
					Artist string `json:"artist"`
					URL    string `json:"url"`
				} `json:"album"`
			} `json:"albummatches"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse album search response: %w", err)
	}

	matches := make([]AlbumMatch, 0, len(envelope.Results.AlbumMatches.Album))
	for _, m := range envelope.Results.AlbumMatches.Album {
		matches = append(matches, AlbumMatch{
			Name:   m.Name,
			Artist: m.Artist,
			URL:    m.URL,
		})
	}
	return matches, nil
}

// GetInfo fetches album details including the track listing.
func (a *AlbumService) GetInfo(ctx context.Context, artist, album string) (*AlbumInfo, error) {
	if artist == "" || album == "" {
		return nil, fmt.Errorf("lastfm: artist and album are required")
	}

	body, err := a.client.call(ctx, http.MethodGet, "album.getinfo", map[string]string{
		"artist": artist,
		"album":  album,
	}, false)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Album struct {
			Name   string `json:"name"`
			Artist string `json:"artist"`
			URL    string `json:"url"`
			Tracks struct {
				Track []struct {
					Name     string `json:"name"`
					Duration int    `json:"duration"`
					Attr     struct {
						Rank int `json:"rank"`
					} `json:"@attr"`
				} `json:"track"`
			} `json:"tracks"`
		} `json:"album"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse album info response: %w", err)
	}

	info := &AlbumInfo{
		Name:   envelope.Album.Name,
		Artist: envelope.Album.Artist,
		URL:    envelope.Album.URL,
	}
	for _, t := range envelope.Album.Tracks.Track {
		info.Tracks = append(info.Tracks, AlbumTrack{
			Rank:     t.Attr.Rank,
			Name:     t.Name,
			Duration: t.Duration,
		})
	}
	return info, nil
}
