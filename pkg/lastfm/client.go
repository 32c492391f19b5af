// Package lastfm provides a client for the Last.fm API 2.0 and for the
// cookie-authenticated parts of the Last.fm website that the public API
// does not cover (scrobble deletion).
//
// Example usage:
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey:    "your-api-key",
//	    APISecret: "your-api-secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session, err := client.Auth().GetSession(ctx, token)
package lastfm

import (
	"fmt"
	"net/http"
)

// Config holds client configuration.
type Config struct {
	APIKey     string       // Required: Last.fm API key
	APISecret  string       // Required: Last.fm API secret
	HTTPClient *http.Client // Optional: HTTP client (defaults to http.DefaultClient)
	APIBaseURL string       // Optional: API endpoint override, used for testing
	WebBaseURL string       // Optional: website base URL override, used for testing
	Logger     Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for debug logging.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Last.fm operations.
type Client struct {
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	apiBaseURL string
	webBaseURL string
	logger     Logger

	auth     *AuthService
	user     *UserService
	scrobble *ScrobbleService
	album    *AlbumService
	library  *LibraryService
}

const (
	// DefaultAPIBaseURL is the Last.fm API 2.0 endpoint.
	DefaultAPIBaseURL = "https://ws.audioscrobbler.com/2.0/"

	// DefaultWebBaseURL is the Last.fm website, used for authorization
	// redirects and the library delete endpoint.
	DefaultWebBaseURL = "https://www.last.fm"
)

// NewClient creates a new Last.fm client.
//
// A missing APIKey or APISecret is a configuration error: no request can be
// signed without them, so no client is returned.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("lastfm: APIKey is required")
	}
	if cfg.APISecret == "" {
		return nil, fmt.Errorf("lastfm: APISecret is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	apiBaseURL := cfg.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}

	webBaseURL := cfg.WebBaseURL
	if webBaseURL == "" {
		webBaseURL = DefaultWebBaseURL
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		httpClient: httpClient,
		apiBaseURL: apiBaseURL,
		webBaseURL: webBaseURL,
		logger:     cfg.Logger,
	}

	c.auth = &AuthService{client: c}
	c.user = &UserService{client: c}
	c.scrobble = &ScrobbleService{client: c}
	c.album = &AlbumService{client: c}
	c.library = &LibraryService{client: c}

	return c, nil
}

// Auth returns the authentication service.
func (c *Client) Auth() *AuthService {
	return c.auth
}

// User returns the user data service (recent tracks, profile, top lists).
func (c *Client) User() *UserService {
	return c.user
}

// Scrobble returns the scrobble submission service.
func (c *Client) Scrobble() *ScrobbleService {
	return c.scrobble
}

// Album returns the album lookup service.
func (c *Client) Album() *AlbumService {
	return c.album
}

// Library returns the library service (website-backed operations).
func (c *Client) Library() *LibraryService {
	return c.library
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
