package store

import (
	"fmt"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestAppendAndListAuditRecords(t *testing.T) {
	t.Parallel()

	s, ctx := openTestStore(t)

	id, err := s.AppendAuditRecord(ctx, AuditRecord{
		ActorID:    testActorID,
		GuildID:    testGuildID,
		Action:     "server_start",
		TargetType: "server",
		TargetID:   strPtr("7"),
		Details:    map[string]any{"server_name": "Survival", "identifier": "mc01"},
		Success:    true,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive record id, got %d", id)
	}

	if _, err := s.AppendAuditRecord(ctx, AuditRecord{
		ActorID:      testActorID,
		GuildID:      testGuildID,
		Action:       "server_stop",
		TargetType:   "server",
		TargetID:     strPtr("7"),
		Success:      false,
		ErrorMessage: strPtr("action rejected by panel"),
	}); err != nil {
		t.Fatalf("append failure record: %v", err)
	}

	records, err := s.ListAuditRecords(ctx, testGuildID, AuditFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Newest first.
	if records[0].Action != "server_stop" {
		t.Fatalf("expected newest-first order, got %s first", records[0].Action)
	}
	if records[0].Success {
		t.Fatal("expected failure flag preserved")
	}
	if records[0].ErrorMessage == nil || *records[0].ErrorMessage != "action rejected by panel" {
		t.Fatalf("unexpected error message: %v", records[0].ErrorMessage)
	}
	if records[1].Details["identifier"] != "mc01" {
		t.Fatalf("expected structured details round trip, got %v", records[1].Details)
	}
}

func TestAppendAuditRecordRequiresCoreFields(t *testing.T) {
	t.Parallel()

	s, ctx := openTestStore(t)

	if _, err := s.AppendAuditRecord(ctx, AuditRecord{GuildID: testGuildID, Action: "x"}); err == nil {
		t.Fatal("expected error for missing actor")
	}
	if _, err := s.AppendAuditRecord(ctx, AuditRecord{ActorID: testActorID, GuildID: testGuildID}); err == nil {
		t.Fatal("expected error for missing action")
	}
}

func TestListAuditRecordsFilters(t *testing.T) {
	t.Parallel()

	s, ctx := openTestStore(t)

	otherActor := "200000000000000002"
	for i := 0; i < 5; i++ {
		actor := testActorID
		action := "server_start"
		if i%2 == 1 {
			actor = otherActor
			action = "user_create"
		}
		if _, err := s.AppendAuditRecord(ctx, AuditRecord{
			ActorID:    actor,
			GuildID:    testGuildID,
			Action:     action,
			TargetType: "server",
			TargetID:   strPtr(fmt.Sprintf("%d", i)),
			Success:    true,
		}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	byActor, err := s.ListAuditRecords(ctx, testGuildID, AuditFilter{ActorID: otherActor})
	if err != nil {
		t.Fatalf("list by actor: %v", err)
	}
	if len(byActor) != 2 {
		t.Fatalf("expected 2 records for actor filter, got %d", len(byActor))
	}

	byAction, err := s.ListAuditRecords(ctx, testGuildID, AuditFilter{Action: "server_start"})
	if err != nil {
		t.Fatalf("list by action: %v", err)
	}
	if len(byAction) != 3 {
		t.Fatalf("expected 3 records for action filter, got %d", len(byAction))
	}

	limited, err := s.ListAuditRecords(ctx, testGuildID, AuditFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit to cap results at 2, got %d", len(limited))
	}

	// Records never leak across guilds.
	other, err := s.ListAuditRecords(ctx, "100000000000000002", AuditFilter{})
	if err != nil {
		t.Fatalf("list other guild: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no records for other guild, got %d", len(other))
	}
}

func TestAuditRecordsSurviveGuildDeletion(t *testing.T) {
	t.Parallel()

	s, ctx := openTestStore(t)

	if _, err := s.EnsureGuild(ctx, testGuildID); err != nil {
		t.Fatalf("ensure guild: %v", err)
	}
	if _, err := s.AppendAuditRecord(ctx, AuditRecord{
		ActorID:    testActorID,
		GuildID:    testGuildID,
		Action:     "setup",
		TargetType: "guild",
		Success:    true,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := s.DeleteGuild(ctx, testGuildID); err != nil {
		t.Fatalf("delete guild: %v", err)
	}

	count, err := s.CountAuditRecords(ctx, testGuildID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected audit trail retained after guild removal, got %d records", count)
	}
}
