// Package history persists the record of past bulk edits so users can
// re-apply a correction without re-typing it.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages persistent edit history using SQLite
type Store struct {
	db *sql.DB
}

// Entry is one remembered correction. Entries are keyed by the original
// (artist, album, track) triple; a later edit of the same triple replaces
// the stored entry.
type Entry struct {
	OriginalArtist  string `json:"originalArtist"`
	OriginalAlbum   string `json:"originalAlbum"`
	OriginalTrack   string `json:"originalTrack"`
	CorrectedArtist string `json:"correctedArtist"`
	CorrectedAlbum  string `json:"correctedAlbum"`
	CorrectedTrack  string `json:"correctedTrack"`
	EditedAt        int64  `json:"editedAtUnix"`
}

// NewStore opens (and if needed creates) the edit history database
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection keeps in-memory databases consistent and is
	// plenty for this workload
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS edits (
			original_artist TEXT NOT NULL,
			original_album TEXT NOT NULL,
			original_track TEXT NOT NULL,
			corrected_artist TEXT NOT NULL,
			corrected_album TEXT NOT NULL,
			corrected_track TEXT NOT NULL,
			edited_at INTEGER NOT NULL,
			PRIMARY KEY (original_artist, original_album, original_track)
		);

		CREATE INDEX IF NOT EXISTS idx_edited_at ON edits(edited_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Upsert records a successful edit. An existing entry for the same
// original triple is overwritten, not appended to.
func (s *Store) Upsert(ctx context.Context, entry Entry) error {
	if entry.EditedAt == 0 {
		entry.EditedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO edits (original_artist, original_album, original_track,
			corrected_artist, corrected_album, corrected_track, edited_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (original_artist, original_album, original_track)
		DO UPDATE SET
			corrected_artist = excluded.corrected_artist,
			corrected_album = excluded.corrected_album,
			corrected_track = excluded.corrected_track,
			edited_at = excluded.edited_at
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.OriginalArtist,
		entry.OriginalAlbum,
		entry.OriginalTrack,
		entry.CorrectedArtist,
		entry.CorrectedAlbum,
		entry.CorrectedTrack,
		entry.EditedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert edit: %w", err)
	}

	return nil
}

// List retrieves all entries, most recent first
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	query := `
		SELECT original_artist, original_album, original_track,
			corrected_artist, corrected_album, corrected_track, edited_at
		FROM edits
		ORDER BY edited_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query edits: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(
			&e.OriginalArtist,
			&e.OriginalAlbum,
			&e.OriginalTrack,
			&e.CorrectedArtist,
			&e.CorrectedAlbum,
			&e.CorrectedTrack,
			&e.EditedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan edit: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edits: %w", err)
	}

	return entries, nil
}

// Delete removes the entry for the given original triple. Deleting an
// entry that does not exist is an error so callers can report it.
func (s *Store) Delete(ctx context.Context, artist, album, track string) error {
	query := `
		DELETE FROM edits
		WHERE original_artist = ? AND original_album = ? AND original_track = ?
	`

	result, err := s.db.ExecContext(ctx, query, artist, album, track)
	if err != nil {
		return fmt.Errorf("failed to delete edit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no edit found for %q / %q / %q", artist, album, track)
	}

	return nil
}

// Count returns the number of stored entries
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM edits").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count edits: %w", err)
	}
	return count, nil
}
