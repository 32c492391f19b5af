package lastfm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// LibraryService performs operations against the Last.fm website that the
// public API does not expose. These calls authenticate with the user's raw
// browser cookies rather than a session key.
//
// The delete endpoint is not documented by Last.fm and its form contract
// may change without notice; every detail of that contract is confined to
// this file.
type LibraryService struct {
	client *Client
}

// DeleteScrobble identifies one scrobble on the website's delete form.
type DeleteScrobble struct {
	Artist    string
	Track     string
	Timestamp int64 // Unix seconds of the original play
}

// Delete removes a single scrobble from the user's library.
//
// It mimics the website's own delete action: a POST to
// /user/{username}/library/delete carrying the user's raw browser cookies,
// a Referer pointing at the user's profile and the CSRF token parsed from
// the csrftoken cookie.
func (l *LibraryService) Delete(ctx context.Context, username, cookies string, scrobble DeleteScrobble) error {
	if username == "" {
		return fmt.Errorf("lastfm: username is required")
	}
	if cookies == "" {
		return fmt.Errorf("lastfm: cookies are required")
	}

	profileURL := l.client.webBaseURL + "/user/" + url.PathEscape(username)

	form := url.Values{}
	form.Set("artist_name", scrobble.Artist)
	form.Set("track_name", scrobble.Track)
	form.Set("timestamp", strconv.FormatInt(scrobble.Timestamp, 10))
	form.Set("csrfmiddlewaretoken", csrfToken(cookies))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, profileURL+"/library/delete", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", profileURL)
	req.Header.Set("Cookie", cookies)
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	// Redirects back to the library page also count as success.
	if resp.StatusCode >= 400 {
		return fmt.Errorf("lastfm: delete rejected with status %d", resp.StatusCode)
	}

	return nil
}

// csrfToken extracts the csrftoken value from a raw Cookie header string.
//
// The input is the browser's "name=value; name=value" form. An absent or
// malformed token yields an empty string, never an error; the upstream
// endpoint rejects the request in that case.
func csrfToken(cookies string) string {
	for _, pair := range strings.Split(cookies, ";") {
		pair = strings.TrimSpace(pair)
		name, value, found := strings.Cut(pair, "=")
		if found && name == "csrftoken" {
			return value
		}
	}
	return ""
}
