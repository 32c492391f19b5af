package reconcile

import (
	"fmt"
	"strings"
)

// ValidationError reports missing or empty required fields in the user's
// edit criteria. It is raised before any network call.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// FetchError means a page of the scrobble history could not be retrieved.
// The whole fetch is aborted; partial history is never used, since an
// undercounted window would silently corrupt matching.
type FetchError struct {
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch scrobble page %d: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DeleteError means a deletion request failed. Deleted reports how many
// records were successfully removed before the failure; those deletions
// cannot be rolled back, so recreation must be skipped.
type DeleteError struct {
	Deleted int
	Err     error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("deletion failed after %d successful deletions: %v", e.Deleted, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}

// SubmitError means the batched recreation request was rejected. It is not
// retried: the upstream has no idempotency token, so a retry could create
// duplicate scrobbles.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("failed to recreate scrobbles: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
