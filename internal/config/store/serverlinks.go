package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ServerLink associates a linked account with one remote server, plus the
// per-server settings the bot keeps for it. Owned exclusively by its
// account and removed with it.
type ServerLink struct {
	ID              int64
	AccountID       int64
	ServerID        string
	ServerName      string
	ServerIdent     string
	AutoStart       bool
	NotifyChannelID *string
	CreatedAt       string
	UpdatedAt       string
}

// ServerLinkOptions describes a partial settings change for a server link.
// Nil fields are left unchanged.
type ServerLinkOptions struct {
	AutoStart       *bool
	NotifyChannelID *string
	ClearNotify     bool
}

const serverLinkColumns = `id, account_id, server_id, server_name, server_identifier,
	auto_start, notify_channel_id, created_at, updated_at`

// AddServerLink records a new server link for an account.
func (s *Store) AddServerLink(ctx context.Context, accountID int64, serverID, name, identifier string) (ServerLink, error) {
	if err := s.ensureWritable("add server link"); err != nil {
		return ServerLink{}, err
	}
	serverID = strings.TrimSpace(serverID)
	identifier = strings.TrimSpace(identifier)
	if accountID <= 0 {
		return ServerLink{}, fmt.Errorf("config: add server link: invalid account id")
	}
	if serverID == "" || identifier == "" {
		return ServerLink{}, fmt.Errorf("config: add server link: server id and identifier required")
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO server_links (account_id, server_id, server_name, server_identifier)
		VALUES (?, ?, ?, ?)
	`, accountID, serverID, name, identifier)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ServerLink{}, fmt.Errorf("server %q is already linked to this account", identifier)
		}
		return ServerLink{}, fmt.Errorf("config: add server link: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return ServerLink{}, fmt.Errorf("config: add server link: last insert id: %w", err)
	}
	return s.getServerLinkByID(ctx, id)
}

// ListServerLinks returns all server links owned by an account.
func (s *Store) ListServerLinks(ctx context.Context, accountID int64) ([]ServerLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+serverLinkColumns+`
		FROM server_links
		WHERE account_id = ?
		ORDER BY server_identifier
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("config: list server links: %w", err)
	}
	return scanList(rows, scanServerLink, "config: scan server link", "config: iterate server links")
}

// GetServerLink retrieves the link an account holds for a server identifier.
func (s *Store) GetServerLink(ctx context.Context, accountID int64, identifier string) (ServerLink, error) {
	l, err := scanServerLink(s.db.QueryRowContext(ctx, `
		SELECT `+serverLinkColumns+`
		FROM server_links
		WHERE account_id = ? AND server_identifier = ?
	`, accountID, identifier))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ServerLink{}, NotFoundError{Entity: "server link", Key: identifier}
		}
		return ServerLink{}, fmt.Errorf("config: get server link %q: %w", identifier, err)
	}
	return l, nil
}

// CountServerLinks returns the number of servers linked to an account.
// Compared against the account's max_servers capability on new links.
func (s *Store) CountServerLinks(ctx context.Context, accountID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM server_links WHERE account_id = ?
	`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("config: count server links: %w", err)
	}
	return count, nil
}

// SetServerLinkOptions applies a partial settings change to a server link.
func (s *Store) SetServerLinkOptions(ctx context.Context, accountID int64, identifier string, opts ServerLinkOptions) (ServerLink, error) {
	if err := s.ensureWritable("set server link options"); err != nil {
		return ServerLink{}, err
	}
	if opts.AutoStart == nil && opts.NotifyChannelID == nil && !opts.ClearNotify {
		return ServerLink{}, fmt.Errorf("config: set server link options: no fields to update")
	}

	var (
		sets []string
		args []any
	)
	if opts.AutoStart != nil {
		sets = append(sets, "auto_start = ?")
		args = append(args, boolToInt(*opts.AutoStart))
	}
	switch {
	case opts.ClearNotify:
		sets = append(sets, "notify_channel_id = NULL")
	case opts.NotifyChannelID != nil:
		sets = append(sets, "notify_channel_id = ?")
		args = append(args, *opts.NotifyChannelID)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, accountID, identifier)

	result, err := s.db.ExecContext(ctx, `
		UPDATE server_links SET `+strings.Join(sets, ", ")+`
		WHERE account_id = ? AND server_identifier = ?
	`, args...)
	if err != nil {
		return ServerLink{}, fmt.Errorf("config: set server link options: %w", err)
	}
	n, raErr := result.RowsAffected()
	if raErr != nil {
		return ServerLink{}, fmt.Errorf("config: set server link options: rows affected: %w", raErr)
	}
	if n == 0 {
		return ServerLink{}, NotFoundError{Entity: "server link", Key: identifier}
	}
	return s.GetServerLink(ctx, accountID, identifier)
}

// DeleteServerLink removes the link an account holds for a server.
func (s *Store) DeleteServerLink(ctx context.Context, accountID int64, identifier string) error {
	if err := s.ensureWritable("delete server link"); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM server_links WHERE account_id = ? AND server_identifier = ?
	`, accountID, identifier)
	if err != nil {
		return fmt.Errorf("config: delete server link: %w", err)
	}
	n, raErr := result.RowsAffected()
	if raErr != nil {
		return fmt.Errorf("config: delete server link: rows affected: %w", raErr)
	}
	if n == 0 {
		return NotFoundError{Entity: "server link", Key: identifier}
	}
	return nil
}

func (s *Store) getServerLinkByID(ctx context.Context, id int64) (ServerLink, error) {
	l, err := scanServerLink(s.db.QueryRowContext(ctx, `
		SELECT `+serverLinkColumns+`
		FROM server_links
		WHERE id = ?
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ServerLink{}, NotFoundError{Entity: "server link", Key: fmt.Sprintf("id=%d", id)}
		}
		return ServerLink{}, fmt.Errorf("config: get server link id=%d: %w", id, err)
	}
	return l, nil
}
