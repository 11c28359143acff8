package bot

import (
	"context"

	"github.com/LukePamlerr/ptero-discord-bot/internal/authz"
	"github.com/LukePamlerr/ptero-discord-bot/internal/config/store"
	"github.com/LukePamlerr/ptero-discord-bot/internal/validate"
)

// SetupGuild registers a guild so members can start linking panel
// credentials. Only a platform administrator may run it; there is no
// stored configuration to check against yet. Re-running for a known
// guild is a no-op.
func (s *Service) SetupGuild(ctx context.Context, guildID string, actor authz.Actor) (store.Guild, error) {
	if !validate.Snowflake(guildID) {
		return store.Guild{}, ValidationError{Field: "guild_id", Message: "not a valid platform id"}
	}
	if !actor.IsAdmin {
		return store.Guild{}, authz.DeniedError{
			Reason:  authz.ReasonNotAdmin,
			Message: "only a guild administrator can run setup",
		}
	}

	guild, err := s.store.EnsureGuild(ctx, guildID)
	s.record(ctx, actor.ID, guildID, "guild.setup", "guild", guildID,
		map[string]any{"correlation_id": newCorrelationID()}, err == nil, err)
	return guild, err
}

// UpdateGuildAdminRole sets or clears the role that grants administrative
// access to the bot in this guild. A nil roleID clears it, falling back
// to the platform admin flag.
func (s *Service) UpdateGuildAdminRole(ctx context.Context, guildID string, actor authz.Actor, roleID *string) error {
	if roleID != nil && !validate.Snowflake(*roleID) {
		return ValidationError{Field: "role_id", Message: "not a valid platform id"}
	}
	if _, err := s.gate.AuthorizeAdmin(ctx, guildID, actor); err != nil {
		return err
	}

	err := s.store.SetGuildAdminRole(ctx, guildID, roleID)
	details := map[string]any{"correlation_id": newCorrelationID()}
	if roleID != nil {
		details["role_id"] = *roleID
	} else {
		details["role_id"] = nil
	}
	s.record(ctx, actor.ID, guildID, "guild.admin_role", "guild", guildID, details, err == nil, err)
	return err
}

// TeardownGuild removes the guild and, by cascade, every linked account
// and server link in it. Audit records are retained.
func (s *Service) TeardownGuild(ctx context.Context, guildID string, actor authz.Actor) error {
	if _, err := s.gate.AuthorizeAdmin(ctx, guildID, actor); err != nil {
		return err
	}

	err := s.store.DeleteGuild(ctx, guildID)
	s.record(ctx, actor.ID, guildID, "guild.teardown", "guild", guildID,
		map[string]any{"correlation_id": newCorrelationID()}, err == nil, err)
	return err
}
