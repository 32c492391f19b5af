// Package reconcile implements the scrobble bulk-edit pipeline: fetch the
// editable history window, match scrobbles against the user's criteria,
// delete the matches through the website endpoint and recreate corrected
// records through the signed API.
package reconcile

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jfmyers9/scrobblemend/internal/history"
	"github.com/jfmyers9/scrobblemend/pkg/lastfm"
)

// DefaultEditWindow is the lookback for bulk edits. Last.fm only allows
// editing scrobbles from the last 14 days.
const DefaultEditWindow = 14 * 24 * time.Hour

// Phase names the step of the pipeline an edit is in. It is carried on
// results and logs so failures can be attributed to a step.
type Phase string

const (
	PhaseFetching   Phase = "fetching"
	PhaseMatching   Phase = "matching"
	PhaseDeleting   Phase = "deleting"
	PhaseRecreating Phase = "recreating"
	PhaseSucceeded  Phase = "succeeded"
)

// Result summarises a completed bulk edit.
//
// Matched can be zero: the edit is then a no-op success, and callers may
// choose to surface that as a warning.
type Result struct {
	Matched  int `json:"matched"`
	Deleted  int `json:"deleted"`
	Accepted int `json:"accepted"`
	Ignored  int `json:"ignored"`
}

// Options configures an Orchestrator.
type Options struct {
	Window      time.Duration // zero means DefaultEditWindow
	DeleteDelay time.Duration // zero means DefaultDeleteDelay
	Logger      zerolog.Logger
}

// Orchestrator runs the full edit pipeline for one request at a time.
type Orchestrator struct {
	fetcher   *Fetcher
	deleter   *Deleter
	recreator *Recreator
	history   *history.Store
	window    time.Duration
	logger    zerolog.Logger

	// now is replaceable in tests
	now func() time.Time
}

// New creates an orchestrator. The history store may be nil, in which case
// successful edits are not remembered.
func New(client *lastfm.Client, hist *history.Store, opts Options) *Orchestrator {
	window := opts.Window
	if window <= 0 {
		window = DefaultEditWindow
	}

	return &Orchestrator{
		fetcher:   NewFetcher(client, opts.Logger),
		deleter:   NewDeleter(client, opts.DeleteDelay, opts.Logger),
		recreator: NewRecreator(client),
		history:   hist,
		window:    window,
		logger:    opts.Logger.With().Str("component", "orchestrator").Logger(),
		now:       time.Now,
	}
}

// Edit runs one bulk edit: fetch, match, delete, recreate, remember.
//
// Failures are returned as the typed errors of this package, each
// attributable to a phase. A deletion failure aborts before recreation:
// already-deleted records cannot be restored, and recreating on top of a
// partial deletion would desynchronise counts.
func (o *Orchestrator) Edit(ctx context.Context, sess *lastfm.Session, criteria Criteria) (*Result, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger.With().Str("user", sess.Name).Logger()

	logger.Info().
		Str("phase", string(PhaseFetching)).
		Str("originalArtist", criteria.OriginalArtist).
		Str("originalTrack", criteria.OriginalTrack).
		Msg("starting bulk edit")

	records, err := o.fetcher.FetchWindow(ctx, sess.Name, o.now().Add(-o.window))
	if err != nil {
		logger.Error().Err(err).Str("phase", string(PhaseFetching)).Msg("bulk edit failed")
		return nil, err
	}

	matches := Match(records, criteria)
	logger.Info().
		Str("phase", string(PhaseMatching)).
		Int("fetched", len(records)).
		Int("matched", len(matches)).
		Msg("matched scrobbles")

	result := &Result{Matched: len(matches)}

	deleted, err := o.deleter.DeleteAll(ctx, sess.Name, criteria.Cookies, matches)
	result.Deleted = deleted
	if err != nil {
		logger.Error().Err(err).Str("phase", string(PhaseDeleting)).Int("deleted", deleted).Msg("bulk edit failed")
		return result, err
	}

	submitted, err := o.recreator.Recreate(ctx, sess.Key, matches, criteria)
	if err != nil {
		logger.Error().Err(err).Str("phase", string(PhaseRecreating)).Msg("bulk edit failed")
		return result, err
	}
	result.Accepted = submitted.Accepted
	result.Ignored = submitted.Ignored

	if o.history != nil {
		entry := history.Entry{
			OriginalArtist:  criteria.OriginalArtist,
			OriginalAlbum:   criteria.OriginalAlbum,
			OriginalTrack:   criteria.OriginalTrack,
			CorrectedArtist: criteria.CorrectedArtist,
			CorrectedAlbum:  criteria.CorrectedAlbum,
			CorrectedTrack:  criteria.CorrectedTrack,
			EditedAt:        o.now().Unix(),
		}
		if err := o.history.Upsert(ctx, entry); err != nil {
			// The upstream edit already happened; a history write failure
			// must not turn a successful edit into a failed one.
			logger.Warn().Err(err).Msg("failed to record edit history")
		}
	}

	logger.Info().
		Str("phase", string(PhaseSucceeded)).
		Int("matched", result.Matched).
		Int("deleted", result.Deleted).
		Int("accepted", result.Accepted).
		Msg("bulk edit succeeded")

	return result, nil
}
