package bot

import (
	"context"

	"github.com/LukePamlerr/ptero-discord-bot/internal/authz"
	"github.com/LukePamlerr/ptero-discord-bot/internal/panel"
	"github.com/LukePamlerr/ptero-discord-bot/internal/validate"
)

// CreatePanelUser provisions a new panel user. Fields are validated
// before authorization so malformed input never reaches the network.
func (s *Service) CreatePanelUser(ctx context.Context, guildID string, actor authz.Actor, fields panel.NewUser) (panel.RemoteUser, error) {
	if !validate.Username(fields.Username) {
		return panel.RemoteUser{}, ValidationError{Field: "username", Message: "must start with a letter or digit and stay under 64 characters"}
	}
	if !validate.Email(fields.Email) {
		return panel.RemoteUser{}, ValidationError{Field: "email", Message: "not a valid email address"}
	}
	account, err := s.gate.Authorize(ctx, authz.Request{
		GuildID:    guildID,
		Actor:      actor,
		Capability: authz.CapabilityCreateUsers,
	})
	if err != nil {
		return panel.RemoteUser{}, err
	}
	client, err := s.client(account)
	if err != nil {
		return panel.RemoteUser{}, err
	}

	user, err := client.CreateUser(ctx, fields)
	details := map[string]any{
		"correlation_id": newCorrelationID(),
		"username":       fields.Username,
		"email":          fields.Email,
	}
	s.record(ctx, actor.ID, guildID, "user.create", "user", user.ID, details, err == nil, err)
	return user, err
}

// ListPanelUsers returns every user account on the actor's panel.
func (s *Service) ListPanelUsers(ctx context.Context, guildID string, actor authz.Actor) ([]panel.RemoteUser, error) {
	account, err := s.gate.Authorize(ctx, authz.Request{
		GuildID:    guildID,
		Actor:      actor,
		Capability: authz.CapabilityCreateUsers,
	})
	if err != nil {
		return nil, err
	}
	client, err := s.client(account)
	if err != nil {
		return nil, err
	}
	return client.ListUsers(ctx)
}

// PanelUserInfo fetches one panel user by id.
func (s *Service) PanelUserInfo(ctx context.Context, guildID string, actor authz.Actor, userID string) (panel.RemoteUser, error) {
	account, err := s.gate.Authorize(ctx, authz.Request{
		GuildID:    guildID,
		Actor:      actor,
		Capability: authz.CapabilityCreateUsers,
	})
	if err != nil {
		return panel.RemoteUser{}, err
	}
	client, err := s.client(account)
	if err != nil {
		return panel.RemoteUser{}, err
	}
	return client.GetUser(ctx, userID)
}

// UpdatePanelUser applies a partial update to a panel user. The boolean
// is false when the panel rejected the change.
func (s *Service) UpdatePanelUser(ctx context.Context, guildID string, actor authz.Actor, userID string, update panel.UserUpdate) (bool, error) {
	if update.IsEmpty() {
		return false, ValidationError{Field: "update", Message: "no fields to change"}
	}
	if update.Email != nil && !validate.Email(*update.Email) {
		return false, ValidationError{Field: "email", Message: "not a valid email address"}
	}
	if update.Username != nil && !validate.Username(*update.Username) {
		return false, ValidationError{Field: "username", Message: "must start with a letter or digit and stay under 64 characters"}
	}
	account, err := s.gate.Authorize(ctx, authz.Request{
		GuildID:    guildID,
		Actor:      actor,
		Capability: authz.CapabilityCreateUsers,
	})
	if err != nil {
		return false, err
	}
	client, err := s.client(account)
	if err != nil {
		return false, err
	}

	applied, err := client.UpdateUser(ctx, userID, update)
	s.record(ctx, actor.ID, guildID, "user.update", "user", userID,
		map[string]any{"correlation_id": newCorrelationID()}, applied && err == nil, err)
	return applied, err
}

// DeletePanelUser removes a panel user. The boolean is false when the
// panel refused, as it does for users that still own servers.
func (s *Service) DeletePanelUser(ctx context.Context, guildID string, actor authz.Actor, userID string) (bool, error) {
	account, err := s.gate.Authorize(ctx, authz.Request{
		GuildID:    guildID,
		Actor:      actor,
		Capability: authz.CapabilityCreateUsers,
	})
	if err != nil {
		return false, err
	}
	client, err := s.client(account)
	if err != nil {
		return false, err
	}

	deleted, err := client.DeleteUser(ctx, userID)
	s.record(ctx, actor.ID, guildID, "user.delete", "user", userID,
		map[string]any{"correlation_id": newCorrelationID()}, deleted && err == nil, err)
	return deleted, err
}
