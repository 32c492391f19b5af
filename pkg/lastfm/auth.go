package lastfm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
)

// AuthService provides authentication operations for the Last.fm API.
type AuthService struct {
	client *Client
}

// AuthURL returns the Last.fm authorization page for the web flow.
//
// After the user authorizes the application, Last.fm redirects to the
// callback URL with a token query parameter, which GetSession exchanges
// for a session key.
func (a *AuthService) AuthURL(callback string) string {
	return a.client.webBaseURL + "/api/auth/?api_key=" + url.QueryEscape(a.client.apiKey) +
		"&cb=" + url.QueryEscape(callback)
}

// GetSession exchanges an authorized token for a session key.
//
// This is a signed call. The resulting session key is long lived and should
// be stored for future authenticated requests.
func (a *AuthService) GetSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, fmt.Errorf("lastfm: token is required")
	}

	body, err := a.client.call(ctx, http.MethodGet, "auth.getSession", map[string]string{
		"token": token,
	}, true)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Session struct {
			Name       string `json:"name"`
			Key        string `json:"key"`
			Subscriber int    `json:"subscriber"`
		} `json:"session"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse session response: %w", err)
	}
	if envelope.Session.Key == "" {
		return nil, fmt.Errorf("lastfm: session response missing key")
	}

	return &Session{
		Name:       envelope.Session.Name,
		Key:        envelope.Session.Key,
		Subscriber: envelope.Session.Subscriber != 0,
	}, nil
}
