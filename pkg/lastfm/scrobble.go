package lastfm

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
)

// ScrobbleService provides scrobble submission for the Last.fm API.
type ScrobbleService struct {
	client *Client
}

// MaxBatchSize is the maximum number of scrobbles the API accepts in a
// single track.scrobble request.
const MaxBatchSize = 50

// Submit submits a single scrobble.
//
// Requires an authenticated session key.
func (s *ScrobbleService) Submit(ctx context.Context, sessionKey string, scrobble Scrobble) (*ScrobbleResult, error) {
	return s.SubmitBatch(ctx, sessionKey, []Scrobble{scrobble})
}

// SubmitBatch submits scrobbles as indexed batch parameters
// (artist[i], track[i], timestamp[i], album[i]).
//
// Batches larger than MaxBatchSize are split into sequential requests of at
// most MaxBatchSize each; the first failed request aborts the remainder.
// Accepted and ignored counts are aggregated across requests.
func (s *ScrobbleService) SubmitBatch(ctx context.Context, sessionKey string, scrobbles []Scrobble) (*ScrobbleResult, error) {
	if sessionKey == "" {
		return nil, ErrNoSessionKey
	}
	if len(scrobbles) == 0 {
		return &ScrobbleResult{}, nil
	}

	total := &ScrobbleResult{}
	for len(scrobbles) > 0 {
		batch := scrobbles
		if len(batch) > MaxBatchSize {
			batch = batch[:MaxBatchSize]
		}
		scrobbles = scrobbles[len(batch):]

		result, err := s.submitOnce(ctx, sessionKey, batch)
		if err != nil {
			return nil, err
		}
		total.Accepted += result.Accepted
		total.Ignored += result.Ignored
	}

	return total, nil
}

// submitOnce submits a single track.scrobble request of at most
// MaxBatchSize scrobbles.
func (s *ScrobbleService) submitOnce(ctx context.Context, sessionKey string, scrobbles []Scrobble) (*ScrobbleResult, error) {
	params := map[string]string{
		"sk": sessionKey,
	}

	for i, scrobble := range scrobbles {
		idx := "[" + strconv.Itoa(i) + "]"
		params["artist"+idx] = scrobble.Artist
		params["track"+idx] = scrobble.Track
		params["timestamp"+idx] = strconv.FormatInt(scrobble.Timestamp, 10)
		if scrobble.Album != "" {
			params["album"+idx] = scrobble.Album
		}
	}

	body, err := s.client.call(ctx, http.MethodPost, "track.scrobble", params, true)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Scrobbles struct {
			Attr struct {
				Accepted int `json:"accepted"`
				Ignored  int `json:"ignored"`
			} `json:"@attr"`
		} `json:"scrobbles"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("lastfm: failed to parse scrobble response: %w", err)
	}

	return &ScrobbleResult{
		Accepted: envelope.Scrobbles.Attr.Accepted,
		Ignored:  envelope.Scrobbles.Attr.Ignored,
	}, nil
}
