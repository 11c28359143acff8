package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/LukePamlerr/ptero-discord-bot/internal/authz"
	"github.com/LukePamlerr/ptero-discord-bot/internal/panel"
	"github.com/LukePamlerr/ptero-discord-bot/internal/validate"
)

// ErrPanelProbeFailed means the supplied URL and API key did not pass the
// connection test, so nothing was stored.
var ErrPanelProbeFailed = errors.New("bot: panel rejected the supplied credentials")

// PanelStatus summarizes an actor's link without exposing the API key.
type PanelStatus struct {
	PanelURL         string
	Reachable        bool
	CanManageServers bool
	CanCreateUsers   bool
	MaxServers       int
	LinkedAt         string
}

// LinkPanel validates and probes the supplied credentials, then stores
// them encrypted. Re-linking replaces the credentials in place and leaves
// previously granted capabilities untouched.
func (s *Service) LinkPanel(ctx context.Context, guildID string, actor authz.Actor, panelURL, apiKey string) error {
	if err := validate.HTTPURL(panelURL); err != nil {
		return ValidationError{Field: "panel_url", Message: err.Error()}
	}
	if !s.allowPrivatePanels {
		if err := validate.RejectPrivateURL(panelURL); err != nil {
			return ValidationError{Field: "panel_url", Message: err.Error()}
		}
	}
	if strings.TrimSpace(apiKey) == "" {
		return ValidationError{Field: "api_key", Message: "must not be empty"}
	}
	if _, err := s.gate.RequireGuild(ctx, guildID); err != nil {
		return err
	}

	client, err := panel.New(panelURL, apiKey, s.panelOpts...)
	if err != nil {
		return err
	}
	details := map[string]any{"correlation_id": newCorrelationID(), "panel_url": panelURL}
	if !client.TestConnection(ctx) {
		s.record(ctx, actor.ID, guildID, "panel.link", "panel", "", details, false, ErrPanelProbeFailed)
		return ErrPanelProbeFailed
	}

	encURL, err := s.cipher.Encrypt(panelURL)
	if err != nil {
		return err
	}
	encKey, err := s.cipher.Encrypt(apiKey)
	if err != nil {
		return err
	}

	_, err = s.store.UpsertLinkedAccount(ctx, actor.ID, guildID, encURL, encKey)
	s.record(ctx, actor.ID, guildID, "panel.link", "panel", "", details, err == nil, err)
	return err
}

// Status re-probes the actor's stored credentials and reports the link's
// health and capabilities. The API key never appears in the result.
func (s *Service) Status(ctx context.Context, guildID string, actor authz.Actor) (PanelStatus, error) {
	account, err := s.gate.Authorize(ctx, authz.Request{GuildID: guildID, Actor: actor})
	if err != nil {
		return PanelStatus{}, err
	}

	panelURL, err := s.cipher.Decrypt(account.PanelURL)
	if err != nil {
		return PanelStatus{}, err
	}
	client, err := s.client(account)
	if err != nil {
		return PanelStatus{}, err
	}

	return PanelStatus{
		PanelURL:         panelURL,
		Reachable:        client.TestConnection(ctx),
		CanManageServers: account.CanManageServers,
		CanCreateUsers:   account.CanCreateUsers,
		MaxServers:       account.MaxServers,
		LinkedAt:         account.CreatedAt,
	}, nil
}

// UnlinkPanel removes the actor's stored credentials and, by cascade,
// their server links.
func (s *Service) UnlinkPanel(ctx context.Context, guildID string, actor authz.Actor) error {
	if _, err := s.gate.RequireGuild(ctx, guildID); err != nil {
		return err
	}

	err := s.store.DeleteLinkedAccount(ctx, actor.ID, guildID)
	s.record(ctx, actor.ID, guildID, "panel.unlink", "panel", "",
		map[string]any{"correlation_id": newCorrelationID()}, err == nil, err)
	return err
}
