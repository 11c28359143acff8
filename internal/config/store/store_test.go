package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "pterobot.db")
	s, err := Open(Options{Path: dbPath})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s, context.Background()
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(Options{}); err == nil {
		t.Fatal("expected error for empty database path")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "pterobot.db")
	first, err := Open(Options{Path: dbPath})
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := first.EnsureGuild(context.Background(), "100000000000000001"); err != nil {
		t.Fatalf("ensure guild: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(Options{Path: dbPath})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	if _, err := second.GetGuild(context.Background(), "100000000000000001"); err != nil {
		t.Fatalf("expected guild to survive reopen: %v", err)
	}
}

func TestReadOnlyStoreRejectsWrites(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "pterobot.db")
	rw, err := Open(Options{Path: dbPath})
	if err != nil {
		t.Fatalf("open rw store: %v", err)
	}
	if _, err := rw.EnsureGuild(context.Background(), "100000000000000001"); err != nil {
		t.Fatalf("ensure guild: %v", err)
	}
	rw.Close()

	ro, err := Open(Options{Path: dbPath, ReadOnly: true})
	if err != nil {
		t.Fatalf("open ro store: %v", err)
	}
	defer ro.Close()

	if _, err := ro.GetGuild(context.Background(), "100000000000000001"); err != nil {
		t.Fatalf("read in ro mode: %v", err)
	}
	if _, err := ro.EnsureGuild(context.Background(), "100000000000000002"); err == nil {
		t.Fatal("expected write in ro mode to fail")
	}
}
