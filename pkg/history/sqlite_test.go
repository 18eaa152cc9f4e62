package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/veritas/news-classifier/pkg/config"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "veritas.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, newTestStore(t))
}

func TestSQLiteReopenKeepsRecords(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "veritas.db")

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := s.Append(ctx, Record{Username: "alice", Text: "x", Result: "FAKE"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Schema creation is idempotent
	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	sum, err := s.Aggregate(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Total != 1 || sum.Fake != 1 {
		t.Errorf("summary after reopen = %+v", sum)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	cfg := config.DefaultConfig().History
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "h.db")
	s, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("expected *SQLiteStore, got %T", s)
	}

	cfg.Backend = "mongo"
	if _, err := Open(ctx, cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}
