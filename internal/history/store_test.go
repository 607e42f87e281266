package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T, maxEntries int) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "history.db"), maxEntries)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, line := range []string{"l", "h 1", "zzz"} {
		entry := Entry{Line: line, Command: "x", Outcome: "ok", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if line == "zzz" {
			entry.Outcome, entry.Error = "unknown_command", "unknown command"
		}
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 || entries[0].Line != "h 1" || entries[1].Line != "zzz" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if entries[1].Outcome != "unknown_command" || entries[1].Error == "" {
		t.Fatalf("outcome not stored: %+v", entries[1])
	}
	if !entries[1].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("unexpected timestamp %v", entries[1].CreatedAt)
	}
}

func TestRecordTrimsToMax(t *testing.T) {
	store := openTestStore(t, 3)
	ctx := context.Background()
	for _, line := range []string{"a", "b", "c", "d", "e"} {
		if err := store.Record(ctx, Entry{Line: line, Outcome: "ok"}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 || entries[0].Line != "c" || entries[2].Line != "e" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestBlankLinesAreSkipped(t *testing.T) {
	store := openTestStore(t, 0)
	if err := store.Record(context.Background(), Entry{Line: "   ", Outcome: "ok"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	entries, _ := store.Recent(context.Background(), 5)
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %+v", entries)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()
	first, err := Open(ctx, path, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Record(ctx, Entry{Line: "d", Outcome: "ok"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	_ = first.Close()

	second, err := Open(ctx, path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	entries, _ := second.Recent(ctx, 5)
	if len(entries) != 1 || entries[0].Line != "d" {
		t.Fatalf("unexpected entries after reopen %+v", entries)
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()
	store, err := Open(ctx, path, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.ExecContext(ctx, "UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("update version: %v", err)
	}
	_ = store.Close()

	if _, err := Open(ctx, path, 0); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestNilStoreIsNoop(t *testing.T) {
	var store *Store
	ctx := context.Background()
	if err := store.Record(ctx, Entry{Line: "x"}); err != nil {
		t.Fatalf("Record on nil store: %v", err)
	}
	if entries, err := store.Recent(ctx, 5); err != nil || entries != nil {
		t.Fatalf("Recent on nil store: %v %v", entries, err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close on nil store: %v", err)
	}
}
