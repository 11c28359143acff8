package bot

import (
	"context"

	"github.com/LukePamlerr/ptero-discord-bot/internal/authz"
	"github.com/LukePamlerr/ptero-discord-bot/internal/config/store"
	"github.com/LukePamlerr/ptero-discord-bot/internal/validate"
)

// SetMemberPermissions updates another member's capability flags or
// server quota. Admin only.
func (s *Service) SetMemberPermissions(ctx context.Context, guildID string, actor authz.Actor, memberID string, update store.CapabilityUpdate) (store.LinkedAccount, error) {
	if !validate.Snowflake(memberID) {
		return store.LinkedAccount{}, ValidationError{Field: "member_id", Message: "not a valid platform id"}
	}
	if update.CanManageServers == nil && update.CanCreateUsers == nil && update.MaxServers == nil {
		return store.LinkedAccount{}, ValidationError{Field: "update", Message: "no fields to change"}
	}
	if update.MaxServers != nil && *update.MaxServers < 0 {
		return store.LinkedAccount{}, ValidationError{Field: "max_servers", Message: "must not be negative"}
	}
	if _, err := s.gate.AuthorizeAdmin(ctx, guildID, actor); err != nil {
		return store.LinkedAccount{}, err
	}

	account, err := s.store.UpdateCapabilities(ctx, memberID, guildID, update)

	details := map[string]any{"correlation_id": newCorrelationID()}
	if update.CanManageServers != nil {
		details["can_manage_servers"] = *update.CanManageServers
	}
	if update.CanCreateUsers != nil {
		details["can_create_users"] = *update.CanCreateUsers
	}
	if update.MaxServers != nil {
		details["max_servers"] = *update.MaxServers
	}
	s.record(ctx, actor.ID, guildID, "member.permissions", "member", memberID, details, err == nil, err)
	return account, err
}

// ResetMember removes a member's linked account, credentials and server
// links included. Admin only.
func (s *Service) ResetMember(ctx context.Context, guildID string, actor authz.Actor, memberID string) error {
	if !validate.Snowflake(memberID) {
		return ValidationError{Field: "member_id", Message: "not a valid platform id"}
	}
	if _, err := s.gate.AuthorizeAdmin(ctx, guildID, actor); err != nil {
		return err
	}

	err := s.store.DeleteLinkedAccount(ctx, memberID, guildID)
	s.record(ctx, actor.ID, guildID, "member.reset", "member", memberID,
		map[string]any{"correlation_id": newCorrelationID()}, err == nil, err)
	return err
}

// ListMembers returns the guild's linked accounts with the encrypted
// credential fields blanked. Admin only.
func (s *Service) ListMembers(ctx context.Context, guildID string, actor authz.Actor) ([]store.LinkedAccount, error) {
	if _, err := s.gate.AuthorizeAdmin(ctx, guildID, actor); err != nil {
		return nil, err
	}

	accounts, err := s.store.ListLinkedAccounts(ctx, guildID)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		accounts[i].PanelURL = ""
		accounts[i].APIKey = ""
	}
	return accounts, nil
}

// AuditLog queries the guild's audit trail, newest first. Admin only.
func (s *Service) AuditLog(ctx context.Context, guildID string, actor authz.Actor, filter store.AuditFilter) ([]store.AuditRecord, error) {
	if _, err := s.gate.AuthorizeAdmin(ctx, guildID, actor); err != nil {
		return nil, err
	}
	return s.audit.List(ctx, guildID, filter)
}
