// Package session persists the authenticated Last.fm session in an
// http-only browser cookie.
package session

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/jfmyers9/scrobblemend/pkg/lastfm"
)

// CookieName is the session cookie set after a successful Last.fm
// authentication callback.
const CookieName = "lastfm_session"

// MaxAge is the session cookie lifetime.
const MaxAge = 30 * 24 * time.Hour

// Store reads and writes the session cookie. The cookie value is the
// base64url-encoded JSON of lastfm.Session.
type Store struct {
	secure bool
}

// NewStore creates a session store. secure controls the cookie's Secure
// attribute and should be true everywhere except plain-HTTP development.
func NewStore(secure bool) *Store {
	return &Store{secure: secure}
}

// Write sets the session cookie on the response.
func (s *Store) Write(w http.ResponseWriter, sess *lastfm.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read parses the session cookie from the request. A missing or malformed
// cookie yields (nil, false), never an error: an unreadable session is the
// same as no session.
func (s *Store) Read(r *http.Request) (*lastfm.Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil, false
	}

	var sess lastfm.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, false
	}
	if sess.Name == "" || sess.Key == "" {
		return nil, false
	}

	return &sess, true
}

// Clear deletes the session cookie (logout).
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
