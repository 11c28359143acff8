package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/LukePamlerr/ptero-discord-bot/internal/authz"
	"github.com/LukePamlerr/ptero-discord-bot/internal/panel"
	"github.com/LukePamlerr/ptero-discord-bot/internal/validate"
)

// ListServers returns every server the actor's panel credentials can see,
// with owner and allocation relations included.
func (s *Service) ListServers(ctx context.Context, guildID string, actor authz.Actor) ([]panel.RemoteServer, error) {
	account, err := s.gate.Authorize(ctx, authz.Request{GuildID: guildID, Actor: actor})
	if err != nil {
		return nil, err
	}
	client, err := s.client(account)
	if err != nil {
		return nil, err
	}
	return client.ListServers(ctx, true)
}

// ServerInfo looks a server up by its short identifier or numeric id,
// case-insensitively, and returns its full detail.
func (s *Service) ServerInfo(ctx context.Context, guildID string, actor authz.Actor, identifier string) (panel.RemoteServer, error) {
	account, err := s.gate.Authorize(ctx, authz.Request{GuildID: guildID, Actor: actor})
	if err != nil {
		return panel.RemoteServer{}, err
	}
	client, err := s.client(account)
	if err != nil {
		return panel.RemoteServer{}, err
	}
	server, err := resolveServer(ctx, client, identifier)
	if err != nil {
		return panel.RemoteServer{}, err
	}
	return client.GetServer(ctx, server.ID)
}

// PowerAction sends a power signal to a server. The boolean mirrors the
// panel client: true when the signal was applied, false when the panel
// accepted the request but refused the transition.
func (s *Service) PowerAction(ctx context.Context, guildID string, actor authz.Actor, identifier, signal string) (bool, error) {
	if !validate.PowerSignal(signal) {
		return false, ValidationError{Field: "signal", Message: "must be one of start, stop, restart, kill"}
	}
	account, err := s.gate.Authorize(ctx, authz.Request{
		GuildID:    guildID,
		Actor:      actor,
		Capability: authz.CapabilityManageServers,
	})
	if err != nil {
		return false, err
	}
	client, err := s.client(account)
	if err != nil {
		return false, err
	}
	server, err := resolveServer(ctx, client, identifier)
	if err != nil {
		return false, err
	}

	var applied bool
	switch signal {
	case "start":
		applied, err = client.Start(ctx, server.ID)
	case "stop":
		applied, err = client.Stop(ctx, server.ID)
	case "restart":
		applied, err = client.Restart(ctx, server.ID)
	case "kill":
		applied, err = client.Kill(ctx, server.ID)
	}

	details := map[string]any{
		"correlation_id": newCorrelationID(),
		"signal":         signal,
		"identifier":     server.Identifier,
	}
	s.record(ctx, actor.ID, guildID, "server.power", "server", server.ID, details, applied && err == nil, err)
	return applied, err
}

// SendCommand runs a console command on a server.
func (s *Service) SendCommand(ctx context.Context, guildID string, actor authz.Actor, identifier, command string) (bool, error) {
	if strings.TrimSpace(command) == "" {
		return false, ValidationError{Field: "command", Message: "must not be empty"}
	}
	account, err := s.gate.Authorize(ctx, authz.Request{
		GuildID:    guildID,
		Actor:      actor,
		Capability: authz.CapabilityManageServers,
	})
	if err != nil {
		return false, err
	}
	client, err := s.client(account)
	if err != nil {
		return false, err
	}
	server, err := resolveServer(ctx, client, identifier)
	if err != nil {
		return false, err
	}

	delivered, err := client.SendCommand(ctx, server.ID, command)
	details := map[string]any{
		"correlation_id": newCorrelationID(),
		"command":        command,
		"identifier":     server.Identifier,
	}
	s.record(ctx, actor.ID, guildID, "server.command", "server", server.ID, details, delivered && err == nil, err)
	return delivered, err
}

// ServerResources takes a point-in-time resource reading for a server.
func (s *Service) ServerResources(ctx context.Context, guildID string, actor authz.Actor, identifier string) (panel.ResourceSnapshot, error) {
	account, err := s.gate.Authorize(ctx, authz.Request{GuildID: guildID, Actor: actor})
	if err != nil {
		return panel.ResourceSnapshot{}, err
	}
	client, err := s.client(account)
	if err != nil {
		return panel.ResourceSnapshot{}, err
	}
	server, err := resolveServer(ctx, client, identifier)
	if err != nil {
		return panel.ResourceSnapshot{}, err
	}
	return client.Resources(ctx, server.ID)
}

// resolveServer matches identifier against the panel's server list by
// short identifier or numeric id, ignoring case.
func resolveServer(ctx context.Context, client *panel.Client, identifier string) (panel.RemoteServer, error) {
	servers, err := client.ListServers(ctx, false)
	if err != nil {
		return panel.RemoteServer{}, err
	}
	for _, server := range servers {
		if strings.EqualFold(server.Identifier, identifier) || server.ID == identifier {
			return server, nil
		}
	}
	return panel.RemoteServer{}, panel.NotFoundError{Resource: fmt.Sprintf("server %q", identifier)}
}
