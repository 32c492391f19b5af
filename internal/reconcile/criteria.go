package reconcile

// Criteria describes one correction: which scrobbles to find (the original
// triple) and what to replace them with. Match fields are compared by exact
// string equality; there is no fuzzy matching or case normalization.
type Criteria struct {
	OriginalArtist  string `json:"originalArtist"`
	OriginalAlbum   string `json:"originalAlbum"`
	OriginalTrack   string `json:"originalTrack"`
	CorrectedArtist string `json:"correctedArtist"`
	CorrectedAlbum  string `json:"correctedAlbum"`
	CorrectedTrack  string `json:"correctedTrack"`

	// Cookies is the user's raw browser cookie header for last.fm,
	// required to authorize the unofficial delete endpoint.
	Cookies string `json:"cookies"`
}

// Validate checks that every required field is non-empty. It returns a
// *ValidationError naming all missing fields at once so the UI can show
// field-level messages.
func (c Criteria) Validate() error {
	var missing []string

	for _, field := range []struct {
		name  string
		value string
	}{
		{"originalArtist", c.OriginalArtist},
		{"originalAlbum", c.OriginalAlbum},
		{"originalTrack", c.OriginalTrack},
		{"correctedArtist", c.CorrectedArtist},
		{"correctedAlbum", c.CorrectedAlbum},
		{"correctedTrack", c.CorrectedTrack},
		{"cookies", c.Cookies},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
