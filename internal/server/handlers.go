package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jfmyers9/scrobblemend/internal/history"
	"github.com/jfmyers9/scrobblemend/internal/reconcile"
	"github.com/jfmyers9/scrobblemend/pkg/lastfm"
)

// handleAuthRedirect sends the user to the Last.fm authorization page. The
// callback points back at this service.
func (s *Server) handleAuthRedirect(w http.ResponseWriter, r *http.Request) {
	callback := s.baseURL + "/api/auth/lastfm/callback"
	http.Redirect(w, r, s.client.Auth().AuthURL(callback), http.StatusFound)
}

// handleAuthCallback exchanges the token Last.fm appended to the callback
// for a session key and stores it in the session cookie.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		s.writeError(w, http.StatusBadRequest, "missing token parameter")
		return
	}

	sess, err := s.client.Auth().GetSession(r.Context(), token)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to establish session")
		s.writeError(w, upstreamStatus(err), "failed to establish session")
		return
	}

	if err := s.sessions.Write(w, sess); err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to store session")
		return
	}

	s.logger.Info().Str("user", sess.Name).Msg("session established")
	http.Redirect(w, r, "/"+url.PathEscape(sess.Name)+"/tools", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// deleteScrobbleRequest carries one scrobble deletion. Cookies are the
// user's raw browser cookies for last.fm, forwarded per request and never
// stored.
type deleteScrobbleRequest struct {
	Username string `json:"username"`
	Cookies  string `json:"cookies"`
	Scrobble struct {
		Artist    string `json:"artist"`
		Track     string `json:"track"`
		Timestamp int64  `json:"timestamp"`
	} `json:"scrobble"`
}

func (s *Server) handleDeleteScrobble(w http.ResponseWriter, r *http.Request) {
	var req deleteScrobbleRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Cookies == "" || req.Scrobble.Artist == "" || req.Scrobble.Track == "" {
		s.writeError(w, http.StatusBadRequest, "username, cookies, scrobble.artist and scrobble.track are required")
		return
	}

	err := s.client.Library().Delete(r.Context(), req.Username, req.Cookies, lastfm.DeleteScrobble{
		Artist:    req.Scrobble.Artist,
		Track:     req.Scrobble.Track,
		Timestamp: req.Scrobble.Timestamp,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user", req.Username).Msg("scrobble deletion failed")
		s.writeError(w, http.StatusBadGateway, "deletion failed: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// batchTrack is one entry of a batch or manual scrobble submission.
type batchTrack struct {
	Artist    string `json:"artist"`
	Track     string `json:"track"`
	Album     string `json:"album"`
	Timestamp int64  `json:"timestamp"`
}

func (s *Server) handleBatchScrobble(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Tracks []batchTrack `json:"tracks"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	if len(req.Tracks) == 0 {
		s.writeError(w, http.StatusBadRequest, "tracks must not be empty")
		return
	}

	scrobbles := make([]lastfm.Scrobble, 0, len(req.Tracks))
	now := time.Now().Unix()
	for i, t := range req.Tracks {
		if t.Artist == "" || t.Track == "" {
			s.writeError(w, http.StatusBadRequest, "tracks["+strconv.Itoa(i)+"]: artist and track are required")
			return
		}
		ts := t.Timestamp
		if ts == 0 {
			ts = now
		}
		scrobbles = append(scrobbles, lastfm.Scrobble{
			Artist:    t.Artist,
			Track:     t.Track,
			Album:     t.Album,
			Timestamp: ts,
		})
	}

	result, err := s.client.Scrobble().SubmitBatch(r.Context(), sess.Key, scrobbles)
	if err != nil {
		s.logger.Error().Err(err).Str("user", sess.Name).Int("tracks", len(scrobbles)).Msg("batch scrobble failed")
		s.writeError(w, upstreamStatus(err), "scrobble submission failed: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleManualScrobble(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	var req batchTrack
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Artist == "" || req.Track == "" {
		s.writeError(w, http.StatusBadRequest, "artist and track are required")
		return
	}
	if req.Timestamp == 0 {
		req.Timestamp = time.Now().Unix()
	}

	result, err := s.client.Scrobble().Submit(r.Context(), sess.Key, lastfm.Scrobble{
		Artist:    req.Artist,
		Track:     req.Track,
		Album:     req.Album,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user", sess.Name).Msg("manual scrobble failed")
		s.writeError(w, upstreamStatus(err), "scrobble submission failed: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleEditScrobbles runs the whole bulk-edit pipeline for the
// authenticated user and reports the phase counts.
func (s *Server) handleEditScrobbles(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	var criteria reconcile.Criteria
	if !s.decodeBody(w, r, &criteria) {
		return
	}

	result, err := s.orch.Edit(r.Context(), sess, criteria)
	if err != nil {
		resp := map[string]interface{}{"error": err.Error()}
		if result != nil {
			resp["result"] = result
		}
		s.writeJSON(w, editStatus(err), resp)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// editStatus maps a bulk-edit failure to a response status by phase.
func editStatus(err error) int {
	var vErr *reconcile.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func (s *Server) handleEditHistoryList(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, "edit history is disabled")
		return
	}

	entries, err := s.history.List(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list edit history")
		s.writeError(w, http.StatusInternalServerError, "failed to list edit history")
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (s *Server) handleEditHistoryDelete(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, "edit history is disabled")
		return
	}

	var req struct {
		OriginalArtist string `json:"originalArtist"`
		OriginalAlbum  string `json:"originalAlbum"`
		OriginalTrack  string `json:"originalTrack"`
	}
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.OriginalArtist == "" || req.OriginalTrack == "" {
		s.writeError(w, http.StatusBadRequest, "originalArtist and originalTrack are required")
		return
	}

	if err := s.history.Delete(r.Context(), req.OriginalArtist, req.OriginalAlbum, req.OriginalTrack); err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// resolveUser returns the user query parameter, falling back to the
// session's username.
func (s *Server) resolveUser(r *http.Request) string {
	if user := r.URL.Query().Get("user"); user != "" {
		return user
	}
	if sess, ok := s.sessions.Read(r); ok {
		return sess.Name
	}
	return ""
}

func (s *Server) handleRecentTracks(w http.ResponseWriter, r *http.Request) {
	user := s.resolveUser(r)
	if user == "" {
		s.writeError(w, http.StatusBadRequest, "user parameter is required")
		return
	}

	q := r.URL.Query()
	params := lastfm.RecentTracksParams{User: user}
	params.From, _ = strconv.ParseInt(q.Get("from"), 10, 64)
	params.To, _ = strconv.ParseInt(q.Get("to"), 10, 64)
	params.Limit, _ = strconv.Atoi(q.Get("limit"))
	params.Page, _ = strconv.Atoi(q.Get("page"))

	page, err := s.client.User().RecentTracks(r.Context(), params)
	if err != nil {
		s.writeError(w, upstreamStatus(err), "failed to fetch recent tracks: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	user := s.resolveUser(r)
	if user == "" {
		s.writeError(w, http.StatusBadRequest, "user parameter is required")
		return
	}

	info, err := s.client.User().GetInfo(r.Context(), user)
	if err != nil {
		s.writeError(w, upstreamStatus(err), "failed to fetch user info: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, info)
}

// handleTopRanked serves the three top-list routes through one handler,
// parameterised by kind.
func (s *Server) handleTopRanked(kind lastfm.RankedKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.resolveUser(r)
		if user == "" {
			s.writeError(w, http.StatusBadRequest, "user parameter is required")
			return
		}

		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))

		items, err := s.client.User().TopRanked(r.Context(), user, kind, q.Get("period"), limit)
		if err != nil {
			s.writeError(w, upstreamStatus(err), "failed to fetch top "+kind.String()+": "+err.Error())
			return
		}
		if items == nil {
			items = []lastfm.RankedItem{}
		}

		s.writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
	}
}

func (s *Server) handleAlbumSearch(w http.ResponseWriter, r *http.Request) {
	album := r.URL.Query().Get("album")
	if album == "" {
		s.writeError(w, http.StatusBadRequest, "album parameter is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	matches, err := s.client.Album().Search(r.Context(), album, limit)
	if err != nil {
		s.writeError(w, upstreamStatus(err), "album search failed: "+err.Error())
		return
	}
	if matches == nil {
		matches = []lastfm.AlbumMatch{}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"results": matches})
}

func (s *Server) handleAlbumInfo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	artist, album := q.Get("artist"), q.Get("album")
	if artist == "" || album == "" {
		s.writeError(w, http.StatusBadRequest, "artist and album parameters are required")
		return
	}

	info, err := s.client.Album().GetInfo(r.Context(), artist, album)
	if err != nil {
		s.writeError(w, upstreamStatus(err), "album lookup failed: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, info)
}
