package store

import (
	"context"
	"fmt"
	"strings"
)

// AuditRecord is one immutable entry in the audit trail. Records are only
// ever appended; nothing in this package updates or deletes them.
type AuditRecord struct {
	ID           int64
	ActorID      string
	GuildID      string
	Action       string
	TargetType   string
	TargetID     *string
	Details      map[string]any
	Success      bool
	ErrorMessage *string
	Timestamp    string
}

// AuditFilter narrows an audit query. Zero values mean "no constraint";
// Limit defaults to 50 and is capped at 500.
type AuditFilter struct {
	ActorID string
	Action  string
	Since   string // RFC 3339 / SQLite timestamp lower bound, inclusive
	Limit   int
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AppendAuditRecord inserts one audit entry and returns its id. The write
// is committed before return; there is no batching.
func (s *Store) AppendAuditRecord(ctx context.Context, record AuditRecord) (int64, error) {
	if err := s.ensureWritable("append audit record"); err != nil {
		return 0, err
	}
	if record.ActorID == "" || record.GuildID == "" || record.Action == "" {
		return 0, fmt.Errorf("config: append audit record: actor, guild, and action required")
	}

	details, err := encodeJSON(record.Details, nullWhenEmptyMap)
	if err != nil {
		return 0, fmt.Errorf("config: append audit record: encode details: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_records
			(actor_id, guild_id, action, target_type, target_id, details, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ActorID, record.GuildID, record.Action, record.TargetType,
		record.TargetID, details, boolToInt(record.Success), record.ErrorMessage)
	if err != nil {
		return 0, fmt.Errorf("config: append audit record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("config: append audit record: last insert id: %w", err)
	}
	return id, nil
}

// ListAuditRecords returns a guild's audit entries newest-first, narrowed
// by the filter. The (guild_id, timestamp) index serves the range scan.
func (s *Store) ListAuditRecords(ctx context.Context, guildID string, filter AuditFilter) ([]AuditRecord, error) {
	conds := []string{"guild_id = ?"}
	args := []any{guildID}

	if filter.ActorID != "" {
		conds = append(conds, "actor_id = ?")
		args = append(args, filter.ActorID)
	}
	if filter.Action != "" {
		conds = append(conds, "action = ?")
		args = append(args, filter.Action)
	}
	if filter.Since != "" {
		conds = append(conds, "timestamp >= ?")
		args = append(args, filter.Since)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_id, guild_id, action, target_type, target_id,
			details, success, error_message, timestamp
		FROM audit_records
		WHERE `+strings.Join(conds, " AND ")+`
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("config: list audit records: %w", err)
	}
	return scanList(rows, scanAuditRecord, "config: scan audit record", "config: iterate audit records")
}

// CountAuditRecords returns the total number of audit entries for a guild.
func (s *Store) CountAuditRecords(ctx context.Context, guildID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM audit_records WHERE guild_id = ?
	`, guildID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("config: count audit records: %w", err)
	}
	return count, nil
}
