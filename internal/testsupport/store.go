package testsupport

import (
	"context"
	"testing"

	"sylva/internal/config"
	"sylva/internal/history"
)

// MustOpenHistory opens the history store configured in cfg and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(context.Background(), cfg.Paths.HistoryDB, cfg.History.MaxEntries)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
