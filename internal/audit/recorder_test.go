package audit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/LukePamlerr/ptero-discord-bot/internal/config/store"
)

func openTestRecorder(t *testing.T) (*Recorder, *store.Store) {
	t.Helper()

	s, err := store.Open(store.Options{Path: filepath.Join(t.TempDir(), "audit.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if _, err := s.EnsureGuild(context.Background(), "100000000000000001"); err != nil {
		t.Fatalf("ensure guild: %v", err)
	}
	return New(s), s
}

func TestRecordPersistsEntry(t *testing.T) {
	t.Parallel()

	recorder, _ := openTestRecorder(t)
	ctx := context.Background()

	recorder.Record(ctx, Entry{
		ActorID:    "200000000000000001",
		GuildID:    "100000000000000001",
		Action:     "server.power",
		TargetType: "server",
		TargetID:   "abc123",
		Details:    map[string]any{"signal": "restart"},
		Success:    true,
	})

	records, err := recorder.List(ctx, "100000000000000001", store.AuditFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.Action != "server.power" || !got.Success {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.TargetID == nil || *got.TargetID != "abc123" {
		t.Fatalf("expected target id abc123, got %v", got.TargetID)
	}
	if got.ErrorMessage != nil {
		t.Fatalf("expected no error message, got %q", *got.ErrorMessage)
	}
	if got.Details["signal"] != "restart" {
		t.Fatalf("expected details to round trip, got %v", got.Details)
	}
}

func TestRecordFailureCarriesMessage(t *testing.T) {
	t.Parallel()

	recorder, _ := openTestRecorder(t)
	ctx := context.Background()

	recorder.Record(ctx, Entry{
		ActorID:      "200000000000000001",
		GuildID:      "100000000000000001",
		Action:       "panel.link",
		TargetType:   "panel",
		Success:      false,
		ErrorMessage: "authentication failed",
	})

	records, err := recorder.List(ctx, "100000000000000001", store.AuditFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Success {
		t.Fatal("expected failure record")
	}
	if records[0].ErrorMessage == nil || *records[0].ErrorMessage != "authentication failed" {
		t.Fatalf("expected error message, got %v", records[0].ErrorMessage)
	}
}

func TestRecordSwallowsStoreErrors(t *testing.T) {
	t.Parallel()

	recorder, s := openTestRecorder(t)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Must not panic or surface the failure.
	recorder.Record(context.Background(), Entry{
		ActorID:    "200000000000000001",
		GuildID:    "100000000000000001",
		Action:     "guild.setup",
		TargetType: "guild",
		Success:    true,
	})
}
