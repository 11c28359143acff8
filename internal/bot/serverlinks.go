package bot

import (
	"context"
	"fmt"

	"github.com/LukePamlerr/ptero-discord-bot/internal/authz"
	"github.com/LukePamlerr/ptero-discord-bot/internal/config/store"
	"github.com/LukePamlerr/ptero-discord-bot/internal/validate"
)

// ServerLimitError means the actor's account already holds its maximum
// number of server links.
type ServerLimitError struct {
	Max int
}

func (e ServerLimitError) Error() string {
	return fmt.Sprintf("bot: server link limit reached (%d)", e.Max)
}

// LinkServer verifies the server exists on the actor's panel and records
// a link to it, subject to the account's server quota.
func (s *Service) LinkServer(ctx context.Context, guildID string, actor authz.Actor, identifier string) (store.ServerLink, error) {
	account, err := s.gate.Authorize(ctx, authz.Request{GuildID: guildID, Actor: actor})
	if err != nil {
		return store.ServerLink{}, err
	}

	count, err := s.store.CountServerLinks(ctx, account.ID)
	if err != nil {
		return store.ServerLink{}, err
	}
	if count >= account.MaxServers {
		return store.ServerLink{}, ServerLimitError{Max: account.MaxServers}
	}

	client, err := s.client(account)
	if err != nil {
		return store.ServerLink{}, err
	}
	server, err := resolveServer(ctx, client, identifier)
	if err != nil {
		return store.ServerLink{}, err
	}

	link, err := s.store.AddServerLink(ctx, account.ID, server.ID, server.Name, server.Identifier)
	details := map[string]any{
		"correlation_id": newCorrelationID(),
		"identifier":     server.Identifier,
		"name":           server.Name,
	}
	s.record(ctx, actor.ID, guildID, "server.link", "server", server.ID, details, err == nil, err)
	return link, err
}

// ListServerLinks returns the actor's recorded server links.
func (s *Service) ListServerLinks(ctx context.Context, guildID string, actor authz.Actor) ([]store.ServerLink, error) {
	account, err := s.gate.Authorize(ctx, authz.Request{GuildID: guildID, Actor: actor})
	if err != nil {
		return nil, err
	}
	return s.store.ListServerLinks(ctx, account.ID)
}

// SetServerOptions changes the per-link settings for one of the actor's
// server links.
func (s *Service) SetServerOptions(ctx context.Context, guildID string, actor authz.Actor, identifier string, opts store.ServerLinkOptions) (store.ServerLink, error) {
	if opts.AutoStart == nil && opts.NotifyChannelID == nil && !opts.ClearNotify {
		return store.ServerLink{}, ValidationError{Field: "options", Message: "no fields to change"}
	}
	if opts.NotifyChannelID != nil && !validate.Snowflake(*opts.NotifyChannelID) {
		return store.ServerLink{}, ValidationError{Field: "notify_channel_id", Message: "not a valid platform id"}
	}
	account, err := s.gate.Authorize(ctx, authz.Request{GuildID: guildID, Actor: actor})
	if err != nil {
		return store.ServerLink{}, err
	}

	link, err := s.store.SetServerLinkOptions(ctx, account.ID, identifier, opts)
	details := map[string]any{"correlation_id": newCorrelationID(), "identifier": identifier}
	if opts.AutoStart != nil {
		details["auto_start"] = *opts.AutoStart
	}
	s.record(ctx, actor.ID, guildID, "server.options", "server", link.ServerID, details, err == nil, err)
	return link, err
}

// UnlinkServer removes one of the actor's server links. The remote server
// is untouched.
func (s *Service) UnlinkServer(ctx context.Context, guildID string, actor authz.Actor, identifier string) error {
	account, err := s.gate.Authorize(ctx, authz.Request{GuildID: guildID, Actor: actor})
	if err != nil {
		return err
	}

	err = s.store.DeleteServerLink(ctx, account.ID, identifier)
	s.record(ctx, actor.ID, guildID, "server.unlink", "server", identifier,
		map[string]any{"correlation_id": newCorrelationID()}, err == nil, err)
	return err
}
