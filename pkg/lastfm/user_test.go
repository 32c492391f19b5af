package lastfm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const recentTracksBody = `{
  "recenttracks": {
    "track": [
      {
        "artist": {"#text": "twenty one pilots"},
        "album": {"#text": "Blurryface", "mbid": "136434d5-9ddf-4c62-8dcc-021ead11fe0c"},
        "name": "Stressed Out",
        "@attr": {"nowplaying": "true"}
      },
      {
        "artist": {"#text": "Queen"},
        "album": {"#text": "A Night at the Opera", "mbid": ""},
        "name": "Bohemian Rhapsody",
        "date": {"uts": "1700000000"}
      }
    ],
    "@attr": {"user": "alice", "page": "1", "totalPages": "3", "total": "2500", "perPage": "1000"}
  }
}`

func TestRecentTracks(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(recentTracksBody))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.URL)

	page, err := client.User().RecentTracks(context.Background(), RecentTracksParams{
		User: "alice",
		From: 1698790400,
		To:   1700000001,
		Page: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", page.TotalPages)
	}
	if page.Total != 2500 {
		t.Errorf("total = %d, want 2500", page.Total)
	}
	if len(page.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(page.Tracks))
	}

	nowPlaying := page.Tracks[0]
	if !nowPlaying.NowPlaying {
		t.Error("first track should be marked now playing")
	}
	if nowPlaying.Timestamp != 0 {
		t.Errorf("now playing track has timestamp %d", nowPlaying.Timestamp)
	}
	if nowPlaying.Historical() {
		t.Error("now playing track must not be historical")
	}
	if nowPlaying.AlbumID != "136434d5-9ddf-4c62-8dcc-021ead11fe0c" {
		t.Errorf("albumId = %q", nowPlaying.AlbumID)
	}

	completed := page.Tracks[1]
	if completed.Timestamp != 1700000000 {
		t.Errorf("timestamp = %d, want 1700000000", completed.Timestamp)
	}
	if !completed.Historical() {
		t.Error("completed scrobble must be historical")
	}
	if completed.Artist != "Queen" || completed.Album != "A Night at the Opera" || completed.Track != "Bohemian Rhapsody" {
		t.Errorf("unexpected track fields: %+v", completed)
	}

	if got := gotQuery["user"]; len(got) == 0 || got[0] != "alice" {
		t.Errorf("user param = %v", got)
	}
	if got := gotQuery["from"]; len(got) == 0 || got[0] != "1698790400" {
		t.Errorf("from param = %v", got)
	}
	if got := gotQuery["limit"]; len(got) == 0 || got[0] != "1000" {
		t.Errorf("limit param = %v, want 1000", got)
	}
}

func TestGetInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
  "user": {
    "name": "alice",
    "realname": "Alice",
    "url": "https://www.last.fm/user/alice",
    "country": "None",
    "playcount": "123456",
    "registered": {"unixtime": "1262304000"}
  }
}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.URL)

	info, err := client.User().GetInfo(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Name != "alice" {
		t.Errorf("name = %q", info.Name)
	}
	if info.Playcount != 123456 {
		t.Errorf("playcount = %d, want 123456", info.Playcount)
	}
	if info.Registered != 1262304000 {
		t.Errorf("registered = %d, want 1262304000", info.Registered)
	}
}

func TestTopRanked(t *testing.T) {
	tests := []struct {
		name       string
		kind       RankedKind
		wantMethod string
		response   string
		wantName   string
		wantArtist string
	}{
		{
			name:       "artists",
			kind:       RankedArtists,
			wantMethod: "user.getTopArtists",
			response:   `{"topartists":{"artist":[{"name":"Queen","url":"u","playcount":"42","@attr":{"rank":"1"}}]}}`,
			wantName:   "Queen",
		},
		{
			name:       "albums",
			kind:       RankedAlbums,
			wantMethod: "user.getTopAlbums",
			response:   `{"topalbums":{"album":[{"name":"Help!","artist":{"name":"The Beatles"},"playcount":"17","@attr":{"rank":"1"}}]}}`,
			wantName:   "Help!",
			wantArtist: "The Beatles",
		},
		{
			name:       "tracks",
			kind:       RankedTracks,
			wantMethod: "user.getTopTracks",
			response:   `{"toptracks":{"track":[{"name":"Yesterday","artist":{"name":"The Beatles"},"playcount":"9","@attr":{"rank":"1"}}]}}`,
			wantName:   "Yesterday",
			wantArtist: "The Beatles",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.URL.Query().Get("method")
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, server.URL)

			items, err := client.User().TopRanked(context.Background(), "alice", tt.kind, "7day", 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotMethod != tt.wantMethod {
				t.Errorf("method = %q, want %q", gotMethod, tt.wantMethod)
			}
			if len(items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(items))
			}
			if items[0].Name != tt.wantName {
				t.Errorf("name = %q, want %q", items[0].Name, tt.wantName)
			}
			if items[0].Artist != tt.wantArtist {
				t.Errorf("artist = %q, want %q", items[0].Artist, tt.wantArtist)
			}
			if items[0].Rank != 1 {
				t.Errorf("rank = %d, want 1", items[0].Rank)
			}
		})
	}
}

func TestTopRankedUnknownKind(t *testing.T) {
	client := newTestClient(t, "http://unused.example", "http://unused.example")

	_, err := client.User().TopRanked(context.Background(), "alice", RankedKind(99), "", 0)
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
