// Package audit records who did what against which panel resource. The
// recorder is deliberately fire and forget: a failed audit write is logged
// and swallowed so it can never fail the operation being audited.
package audit

import (
	"context"
	"log"

	"github.com/LukePamlerr/ptero-discord-bot/internal/config/store"
)

// Entry describes one auditable action. TargetID and ErrorMessage are
// optional; Details may carry structured context (correlation id, signal,
// identifiers) and is stored as JSON.
type Entry struct {
	ActorID      string
	GuildID      string
	Action       string
	TargetType   string
	TargetID     string
	Details      map[string]any
	Success      bool
	ErrorMessage string
}

// Recorder appends audit entries to the config store.
type Recorder struct {
	store *store.Store
}

func New(s *store.Store) *Recorder {
	return &Recorder{store: s}
}

// Record persists one entry. Failures are logged and dropped.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	record := store.AuditRecord{
		ActorID:    entry.ActorID,
		GuildID:    entry.GuildID,
		Action:     entry.Action,
		TargetType: entry.TargetType,
		Details:    entry.Details,
		Success:    entry.Success,
	}
	if entry.TargetID != "" {
		record.TargetID = &entry.TargetID
	}
	if entry.ErrorMessage != "" {
		record.ErrorMessage = &entry.ErrorMessage
	}
	if _, err := r.store.AppendAuditRecord(ctx, record); err != nil {
		log.Printf("[Audit] WARNING: failed to record %s by %s in guild %s: %v",
			entry.Action, entry.ActorID, entry.GuildID, err)
	}
}

// List returns the guild's audit trail, newest first.
func (r *Recorder) List(ctx context.Context, guildID string, filter store.AuditFilter) ([]store.AuditRecord, error) {
	return r.store.ListAuditRecords(ctx, guildID, filter)
}
