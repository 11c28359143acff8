package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Guild holds per-community configuration. A row is created on first
// contact with a community and cascade-deleted when the bot leaves it.
type Guild struct {
	ID          int64
	GuildID     string
	AdminRoleID *string
	CreatedAt   string
	UpdatedAt   string
}

// EnsureGuild creates the guild row if it does not exist and returns it.
// Re-running for a known guild is a no-op that returns the existing row.
func (s *Store) EnsureGuild(ctx context.Context, guildID string) (Guild, error) {
	if err := s.ensureWritable("ensure guild"); err != nil {
		return Guild{}, err
	}
	guildID = strings.TrimSpace(guildID)
	if guildID == "" {
		return Guild{}, fmt.Errorf("config: ensure guild: guild id required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guilds (guild_id) VALUES (?)
		ON CONFLICT(guild_id) DO NOTHING
	`, guildID)
	if err != nil {
		return Guild{}, fmt.Errorf("config: ensure guild %s: %w", guildID, err)
	}
	return s.GetGuild(ctx, guildID)
}

// GetGuild retrieves a guild by its external identifier.
func (s *Store) GetGuild(ctx context.Context, guildID string) (Guild, error) {
	g, err := scanGuild(s.db.QueryRowContext(ctx, `
		SELECT id, guild_id, admin_role_id, created_at, updated_at
		FROM guilds
		WHERE guild_id = ?
	`, guildID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Guild{}, NotFoundError{Entity: "guild", Key: guildID}
		}
		return Guild{}, fmt.Errorf("config: get guild %s: %w", guildID, err)
	}
	return g, nil
}

// SetGuildAdminRole updates the administrator role for a guild. Passing nil
// clears the role, falling the gate back to the platform admin flag.
func (s *Store) SetGuildAdminRole(ctx context.Context, guildID string, adminRoleID *string) error {
	if err := s.ensureWritable("set guild admin role"); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE guilds SET admin_role_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE guild_id = ?
	`, adminRoleID, guildID)
	if err != nil {
		return fmt.Errorf("config: set guild admin role: %w", err)
	}
	n, raErr := result.RowsAffected()
	if raErr != nil {
		return fmt.Errorf("config: set guild admin role: rows affected: %w", raErr)
	}
	if n == 0 {
		return NotFoundError{Entity: "guild", Key: guildID}
	}
	return nil
}

// DeleteGuild removes a guild and, via foreign keys, all of its linked
// accounts and their server links. Audit records are retained.
func (s *Store) DeleteGuild(ctx context.Context, guildID string) error {
	if err := s.ensureWritable("delete guild"); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM guilds WHERE guild_id = ?`, guildID)
	if err != nil {
		return fmt.Errorf("config: delete guild %s: %w", guildID, err)
	}
	n, raErr := result.RowsAffected()
	if raErr != nil {
		return fmt.Errorf("config: delete guild: rows affected: %w", raErr)
	}
	if n == 0 {
		return NotFoundError{Entity: "guild", Key: guildID}
	}
	return nil
}

// CountGuilds returns the number of configured guilds.
func (s *Store) CountGuilds(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM guilds`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("config: count guilds: %w", err)
	}
	return count, nil
}
