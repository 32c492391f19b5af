package lastfm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, apiURL, webURL string) *Client {
	t.Helper()

	client, err := NewClient(Config{
		APIKey:     "test-key",
		APISecret:  "test-secret",
		APIBaseURL: apiURL,
		WebBaseURL: webURL,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid",
			cfg:     Config{APIKey: "k", APISecret: "s"},
			wantErr: false,
		},
		{
			name:    "missing key",
			cfg:     Config{APISecret: "s"},
			wantErr: true,
		},
		{
			name:    "missing secret",
			cfg:     Config{APIKey: "k"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthURL(t *testing.T) {
	client := newTestClient(t, "http://api.example", "https://www.last.fm")

	got := client.Auth().AuthURL("http://localhost:8080/api/auth/lastfm/callback")

	if !strings.HasPrefix(got, "https://www.last.fm/api/auth/?") {
		t.Errorf("unexpected auth URL prefix: %q", got)
	}
	if !strings.Contains(got, "api_key=test-key") {
		t.Errorf("auth URL missing api_key: %q", got)
	}
	if !strings.Contains(got, "cb=http%3A%2F%2Flocalhost%3A8080%2Fapi%2Fauth%2Flastfm%2Fcallback") {
		t.Errorf("auth URL missing escaped callback: %q", got)
	}
}

func TestGetSession(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		status      int
		response    string
		wantErr     bool
		errContains string
		wantName    string
		wantKey     string
	}{
		{
			name:     "success",
			token:    "tok",
			status:   http.StatusOK,
			response: `{"session":{"name":"alice","key":"abc123","subscriber":0}}`,
			wantName: "alice",
			wantKey:  "abc123",
		},
		{
			name:        "unauthorized token",
			token:       "tok",
			status:      http.StatusForbidden,
			response:    `{"error":14,"message":"This token has not been authorized"}`,
			wantErr:     true,
			errContains: "error 14",
		},
		{
			name:        "missing key in response",
			token:       "tok",
			status:      http.StatusOK,
			response:    `{"session":{"name":"alice"}}`,
			wantErr:     true,
			errContains: "missing key",
		},
		{
			name:        "empty token rejected before any call",
			token:       "",
			wantErr:     true,
			errContains: "token is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery map[string][]string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query()
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, server.URL)

			session, err := client.Auth().GetSession(context.Background(), tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if session.Name != tt.wantName {
				t.Errorf("session name = %q, want %q", session.Name, tt.wantName)
			}
			if session.Key != tt.wantKey {
				t.Errorf("session key = %q, want %q", session.Key, tt.wantKey)
			}

			// Signed GET: method, token, api_key and api_sig must be present,
			// format must not be part of the signature but must be sent.
			for _, param := range []string{"method", "token", "api_key", "api_sig", "format"} {
				if len(gotQuery[param]) == 0 {
					t.Errorf("request missing %s parameter", param)
				}
			}
			wantSig := calculateSignature(map[string]string{
				"method":  "auth.getSession",
				"token":   tt.token,
				"api_key": "test-key",
			}, "test-secret")
			if got := gotQuery["api_sig"][0]; got != wantSig {
				t.Errorf("api_sig = %q, want %q", got, wantSig)
			}
		})
	}
}
