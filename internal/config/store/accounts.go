package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// LinkedAccount is one community member's stored panel credentials plus the
// capabilities granted to them. PanelURL and APIKey hold ciphertext from
// the vault; the store never sees plaintext credentials.
type LinkedAccount struct {
	ID               int64
	ActorID          string
	GuildID          string
	PanelURL         string // encrypted
	APIKey           string // encrypted
	CanManageServers bool
	CanCreateUsers   bool
	MaxServers       int
	CreatedAt        string
	UpdatedAt        string
}

// CapabilityUpdate describes a partial capability change. Nil fields are
// left unchanged.
type CapabilityUpdate struct {
	CanManageServers *bool
	CanCreateUsers   *bool
	MaxServers       *int
}

const linkedAccountColumns = `id, actor_id, guild_id, panel_url, api_key,
	can_manage_servers, can_create_users, max_servers, created_at, updated_at`

// UpsertLinkedAccount stores encrypted credentials for an (actor, guild)
// pair. At most one row exists per pair: re-linking replaces the encrypted
// fields in place and leaves capabilities untouched.
func (s *Store) UpsertLinkedAccount(ctx context.Context, actorID, guildID, encPanelURL, encAPIKey string) (LinkedAccount, error) {
	if err := s.ensureWritable("upsert linked account"); err != nil {
		return LinkedAccount{}, err
	}
	actorID = strings.TrimSpace(actorID)
	guildID = strings.TrimSpace(guildID)
	if actorID == "" || guildID == "" {
		return LinkedAccount{}, fmt.Errorf("config: upsert linked account: actor and guild ids required")
	}
	if encPanelURL == "" || encAPIKey == "" {
		return LinkedAccount{}, fmt.Errorf("config: upsert linked account: encrypted credentials required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO linked_accounts (actor_id, guild_id, panel_url, api_key)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(actor_id, guild_id) DO UPDATE SET
			panel_url = excluded.panel_url,
			api_key = excluded.api_key,
			updated_at = CURRENT_TIMESTAMP
	`, actorID, guildID, encPanelURL, encAPIKey)
	if err != nil {
		return LinkedAccount{}, fmt.Errorf("config: upsert linked account: %w", err)
	}
	return s.GetLinkedAccount(ctx, actorID, guildID)
}

// GetLinkedAccount retrieves the linked account for an (actor, guild) pair.
func (s *Store) GetLinkedAccount(ctx context.Context, actorID, guildID string) (LinkedAccount, error) {
	a, err := scanLinkedAccount(s.db.QueryRowContext(ctx, `
		SELECT `+linkedAccountColumns+`
		FROM linked_accounts
		WHERE actor_id = ? AND guild_id = ?
	`, actorID, guildID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LinkedAccount{}, NotFoundError{Entity: "linked account", Key: actorID}
		}
		return LinkedAccount{}, fmt.Errorf("config: get linked account %s/%s: %w", guildID, actorID, err)
	}
	return a, nil
}

// ListLinkedAccounts returns every linked account in a guild.
func (s *Store) ListLinkedAccounts(ctx context.Context, guildID string) ([]LinkedAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+linkedAccountColumns+`
		FROM linked_accounts
		WHERE guild_id = ?
		ORDER BY actor_id
	`, guildID)
	if err != nil {
		return nil, fmt.Errorf("config: list linked accounts: %w", err)
	}
	return scanList(rows, scanLinkedAccount, "config: scan linked account", "config: iterate linked accounts")
}

// UpdateCapabilities applies a partial capability change to an account.
func (s *Store) UpdateCapabilities(ctx context.Context, actorID, guildID string, update CapabilityUpdate) (LinkedAccount, error) {
	if err := s.ensureWritable("update capabilities"); err != nil {
		return LinkedAccount{}, err
	}
	if update.CanManageServers == nil && update.CanCreateUsers == nil && update.MaxServers == nil {
		return LinkedAccount{}, fmt.Errorf("config: update capabilities: no fields to update")
	}
	if update.MaxServers != nil && *update.MaxServers < 0 {
		return LinkedAccount{}, fmt.Errorf("config: update capabilities: max servers must be >= 0")
	}

	var (
		sets []string
		args []any
	)
	if update.CanManageServers != nil {
		sets = append(sets, "can_manage_servers = ?")
		args = append(args, boolToInt(*update.CanManageServers))
	}
	if update.CanCreateUsers != nil {
		sets = append(sets, "can_create_users = ?")
		args = append(args, boolToInt(*update.CanCreateUsers))
	}
	if update.MaxServers != nil {
		sets = append(sets, "max_servers = ?")
		args = append(args, *update.MaxServers)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, actorID, guildID)

	result, err := s.db.ExecContext(ctx, `
		UPDATE linked_accounts SET `+strings.Join(sets, ", ")+`
		WHERE actor_id = ? AND guild_id = ?
	`, args...)
	if err != nil {
		return LinkedAccount{}, fmt.Errorf("config: update capabilities: %w", err)
	}
	n, raErr := result.RowsAffected()
	if raErr != nil {
		return LinkedAccount{}, fmt.Errorf("config: update capabilities: rows affected: %w", raErr)
	}
	if n == 0 {
		return LinkedAccount{}, NotFoundError{Entity: "linked account", Key: actorID}
	}
	return s.GetLinkedAccount(ctx, actorID, guildID)
}

// DeleteLinkedAccount removes an account and, via foreign keys, all of its
// server links.
func (s *Store) DeleteLinkedAccount(ctx context.Context, actorID, guildID string) error {
	if err := s.ensureWritable("delete linked account"); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM linked_accounts WHERE actor_id = ? AND guild_id = ?
	`, actorID, guildID)
	if err != nil {
		return fmt.Errorf("config: delete linked account: %w", err)
	}
	n, raErr := result.RowsAffected()
	if raErr != nil {
		return fmt.Errorf("config: delete linked account: rows affected: %w", raErr)
	}
	if n == 0 {
		return NotFoundError{Entity: "linked account", Key: actorID}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
