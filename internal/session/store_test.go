package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jfmyers9/scrobblemend/pkg/lastfm"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(true)

	rec := httptest.NewRecorder()
	err := store.Write(rec, &lastfm.Session{Name: "alice", Key: "sk-123", Subscriber: true})
	if err != nil {
		t.Fatalf("failed to write session: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	cookie := cookies[0]

	if cookie.Name != CookieName {
		t.Errorf("cookie name = %q, want %q", cookie.Name, CookieName)
	}
	if !cookie.HttpOnly {
		t.Error("cookie must be http-only")
	}
	if !cookie.Secure {
		t.Error("cookie must be secure")
	}
	if cookie.Path != "/" {
		t.Errorf("cookie path = %q, want /", cookie.Path)
	}
	if cookie.MaxAge != int(MaxAge.Seconds()) {
		t.Errorf("cookie max age = %d, want %d", cookie.MaxAge, int(MaxAge.Seconds()))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	sess, ok := store.Read(req)
	if !ok {
		t.Fatal("expected session to be readable")
	}
	if sess.Name != "alice" || sess.Key != "sk-123" || !sess.Subscriber {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestStoreReadAbsent(t *testing.T) {
	store := NewStore(false)

	tests := []struct {
		name  string
		value string
		set   bool
	}{
		{name: "no cookie", set: false},
		{name: "not base64", value: "{json}", set: true},
		{name: "base64 of garbage", value: "bm90LWpzb24", set: true},
		{name: "valid json missing fields", value: "e30", set: true}, // {}
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.set {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.value})
			}

			if sess, ok := store.Read(req); ok {
				t.Errorf("expected absent session, got %+v", sess)
			}
		})
	}
}

func TestStoreClear(t *testing.T) {
	store := NewStore(true)

	rec := httptest.NewRecorder()
	store.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge >= 0 {
		t.Errorf("clear cookie max age = %d, want negative", cookies[0].MaxAge)
	}
	if cookies[0].Value != "" {
		t.Errorf("clear cookie value = %q, want empty", cookies[0].Value)
	}
}
