package lastfm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCSRFToken(t *testing.T) {
	tests := []struct {
		name    string
		cookies string
		want    string
	}{
		{
			name:    "token present",
			cookies: "csrftoken=abc123; sessionid=xyz",
			want:    "abc123",
		},
		{
			name:    "token last",
			cookies: "sessionid=xyz; csrftoken=abc123",
			want:    "abc123",
		},
		{
			name:    "token absent",
			cookies: "sessionid=xyz",
			want:    "",
		},
		{
			name:    "empty string",
			cookies: "",
			want:    "",
		},
		{
			name:    "no separator in pair",
			cookies: "garbage; csrftoken=tok",
			want:    "tok",
		},
		{
			name:    "name is a prefix only",
			cookies: "csrftoken2=nope; other=1",
			want:    "",
		},
		{
			name:    "value contains equals",
			cookies: "csrftoken=a=b",
			want:    "a=b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := csrfToken(tt.cookies); got != tt.want {
				t.Errorf("csrfToken(%q) = %q, want %q", tt.cookies, got, tt.want)
			}
		})
	}
}

func TestLibraryDelete(t *testing.T) {
	var gotPath, gotReferer, gotCookie string
	var gotForm map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotReferer = r.Header.Get("Referer")
		gotCookie = r.Header.Get("Cookie")
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		gotForm = r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.URL)

	err := client.Library().Delete(context.Background(), "alice", "csrftoken=abc; sessionid=xyz", DeleteScrobble{
		Artist:    "Oasis",
		Track:     "Wonderwall",
		Timestamp: 1699999999,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/user/alice/library/delete" {
		t.Errorf("path = %q, want /user/alice/library/delete", gotPath)
	}
	if gotReferer != server.URL+"/user/alice" {
		t.Errorf("referer = %q, want %q", gotReferer, server.URL+"/user/alice")
	}
	if gotCookie != "csrftoken=abc; sessionid=xyz" {
		t.Errorf("cookie header = %q", gotCookie)
	}

	wantForm := map[string]string{
		"artist_name":         "Oasis",
		"track_name":          "Wonderwall",
		"timestamp":           "1699999999",
		"csrfmiddlewaretoken": "abc",
	}
	for field, want := range wantForm {
		if got := gotForm[field]; len(got) == 0 || got[0] != want {
			t.Errorf("form field %s = %v, want %q", field, got, want)
		}
	}
}

func TestLibraryDeleteRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.URL)

	err := client.Library().Delete(context.Background(), "alice", "sessionid=xyz", DeleteScrobble{
		Artist:    "Oasis",
		Track:     "Wonderwall",
		Timestamp: 1,
	})
	if err == nil {
		t.Fatal("expected error for rejected delete")
	}
}

func TestLibraryDeleteValidation(t *testing.T) {
	client := newTestClient(t, "http://unused.example", "http://unused.example")

	if err := client.Library().Delete(context.Background(), "", "c=1", DeleteScrobble{}); err == nil {
		t.Error("expected error for missing username")
	}
	if err := client.Library().Delete(context.Background(), "alice", "", DeleteScrobble{}); err == nil {
		t.Error("expected error for missing cookies")
	}
}
