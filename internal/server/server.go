// Package server exposes the HTTP API: Last.fm authentication, scrobble
// submission, the bulk-edit pipeline and proxied listening-data reads.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/jfmyers9/scrobblemend/internal/history"
	"github.com/jfmyers9/scrobblemend/internal/reconcile"
	"github.com/jfmyers9/scrobblemend/internal/session"
	"github.com/jfmyers9/scrobblemend/pkg/lastfm"
)

// Options configures a Server.
type Options struct {
	// BaseURL is the public URL of this service, used to build the
	// Last.fm authentication callback.
	BaseURL string

	// Window and DeleteDelay configure the bulk-edit pipeline; zero
	// values use the reconcile package defaults.
	Window      time.Duration
	DeleteDelay time.Duration

	// SecureCookies controls the Secure attribute of the session cookie.
	SecureCookies bool

	Logger zerolog.Logger
}

// Server holds the handler dependencies. Use Router to obtain the
// http.Handler.
type Server struct {
	client   *lastfm.Client
	sessions *session.Store
	history  *history.Store
	orch     *reconcile.Orchestrator
	baseURL  string
	logger   zerolog.Logger
}

// New creates a server. The history store may be nil, which disables the
// edit-history routes.
func New(client *lastfm.Client, hist *history.Store, opts Options) *Server {
	return &Server{
		client:   client,
		sessions: session.NewStore(opts.SecureCookies),
		history:  hist,
		orch: reconcile.New(client, hist, reconcile.Options{
			Window:      opts.Window,
			DeleteDelay: opts.DeleteDelay,
			Logger:      opts.Logger,
		}),
		baseURL: opts.BaseURL,
		logger:  opts.Logger.With().Str("component", "server").Logger(),
	}
}

// Router builds the chi router with the full API surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/auth/lastfm", s.handleAuthRedirect)
		r.Get("/auth/lastfm/callback", s.handleAuthCallback)
		r.Post("/auth/logout", s.handleLogout)

		r.Post("/delete-scrobble", s.handleDeleteScrobble)
		r.Post("/batch-scrobble", s.handleBatchScrobble)
		r.Post("/manual-scrobble", s.handleManualScrobble)
		r.Post("/edit-scrobbles", s.handleEditScrobbles)

		r.Get("/edit-history", s.handleEditHistoryList)
		r.Delete("/edit-history", s.handleEditHistoryDelete)

		r.Get("/recent-tracks", s.handleRecentTracks)
		r.Get("/user", s.handleUser)
		r.Get("/top-artists", s.handleTopRanked(lastfm.RankedArtists))
		r.Get("/top-albums", s.handleTopRanked(lastfm.RankedAlbums))
		r.Get("/top-tracks", s.handleTopRanked(lastfm.RankedTracks))
		r.Get("/album-search", s.handleAlbumSearch)
		r.Get("/album-info", s.handleAlbumInfo)
	})

	return r
}

// requestLogger logs one line per request with method, path, status and
// duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("requestId", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// writeJSON writes v as a JSON response body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError writes a JSON error body with the given status.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// requireSession resolves the session cookie, answering 401 when there is
// no usable session.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (*lastfm.Session, bool) {
	sess, ok := s.sessions.Read(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return sess, true
}

// decodeBody decodes a JSON request body into v, answering 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// upstreamStatus maps an upstream call failure to a response status:
// client-caused Last.fm errors surface as 400, everything else as 502.
func upstreamStatus(err error) int {
	var apiErr *lastfm.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case lastfm.ErrCodeInvalidParameters, lastfm.ErrCodeInvalidSessionKey, lastfm.ErrCodeAuthenticationFailed, lastfm.ErrCodeInvalidAPIKey:
			return http.StatusBadRequest
		}
	}
	return http.StatusBadGateway
}
