package history

import (
	"context"
	"os"
	"testing"
)

// createTestStore creates an in-memory SQLite store for testing
func createTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func TestNewStore(t *testing.T) {
	t.Run("in-memory database", func(t *testing.T) {
		store, err := NewStore(":memory:")
		if err != nil {
			t.Fatalf("failed to create in-memory store: %v", err)
		}
		defer func() { _ = store.Close() }()

		if store.db == nil {
			t.Error("store database is nil")
		}
	})

	t.Run("file-based database", func(t *testing.T) {
		tmpfile, err := os.CreateTemp("", "history-test-*.db")
		if err != nil {
			t.Fatalf("failed to create temp file: %v", err)
		}
		_ = tmpfile.Close()
		defer func() { _ = os.Remove(tmpfile.Name()) }()

		store, err := NewStore(tmpfile.Name())
		if err != nil {
			t.Fatalf("failed to create file-based store: %v", err)
		}
		defer func() { _ = store.Close() }()

		if store.db == nil {
			t.Error("store database is nil")
		}
	})
}

func TestUpsertOverwritesSameTriple(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	first := Entry{
		OriginalArtist:  "Oasis",
		OriginalAlbum:   "(What's the Story) Morning Glory?",
		OriginalTrack:   "Wonderwall",
		CorrectedArtist: "Oasis",
		CorrectedAlbum:  "(What's the Story) Morning Glory?",
		CorrectedTrack:  "Wonderwall (Remastered)",
		EditedAt:        1700000000,
	}
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	second := first
	second.CorrectedTrack = "Wonderwall (Remastered 2014)"
	second.EditedAt = 1700000100
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("failed to upsert again: %v", err)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after overwrite, got %d", len(entries))
	}
	if entries[0].CorrectedTrack != "Wonderwall (Remastered 2014)" {
		t.Errorf("corrected track = %q, want the later value", entries[0].CorrectedTrack)
	}
	if entries[0].EditedAt != 1700000100 {
		t.Errorf("edited at = %d, want 1700000100", entries[0].EditedAt)
	}
}

func TestUpsertDistinctTriples(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{OriginalArtist: "A", OriginalAlbum: "X", OriginalTrack: "1", CorrectedArtist: "A", CorrectedAlbum: "X", CorrectedTrack: "1b", EditedAt: 100},
		{OriginalArtist: "A", OriginalAlbum: "X", OriginalTrack: "2", CorrectedArtist: "A", CorrectedAlbum: "X", CorrectedTrack: "2b", EditedAt: 200},
		{OriginalArtist: "B", OriginalAlbum: "Y", OriginalTrack: "1", CorrectedArtist: "B", CorrectedAlbum: "Y", CorrectedTrack: "1c", EditedAt: 300},
	}
	for _, e := range entries {
		if err := store.Upsert(ctx, e); err != nil {
			t.Fatalf("failed to upsert %+v: %v", e, err)
		}
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}

	// Most recent first
	if got[0].EditedAt != 300 || got[2].EditedAt != 100 {
		t.Errorf("entries not ordered by edited_at desc: %+v", got)
	}
}

func TestUpsertDefaultsEditedAt(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx, Entry{
		OriginalArtist: "A", OriginalAlbum: "X", OriginalTrack: "1",
		CorrectedArtist: "A", CorrectedAlbum: "X", CorrectedTrack: "1b",
	})
	if err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if entries[0].EditedAt == 0 {
		t.Error("edited_at should default to the current time")
	}
}

func TestDelete(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	entry := Entry{
		OriginalArtist: "A", OriginalAlbum: "X", OriginalTrack: "1",
		CorrectedArtist: "A", CorrectedAlbum: "X", CorrectedTrack: "1b",
		EditedAt: 100,
	}
	if err := store.Upsert(ctx, entry); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	if err := store.Delete(ctx, "A", "X", "1"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 entries after delete, got %d", count)
	}

	if err := store.Delete(ctx, "A", "X", "1"); err == nil {
		t.Error("expected error when deleting a missing entry")
	}
}
