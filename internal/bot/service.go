// Package bot is the choke point every privileged operation flows
// through: authorize, resolve and decrypt credentials, call the panel,
// record the outcome. Nothing reaches the panel API or the config store
// except through a Service method.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/LukePamlerr/ptero-discord-bot/internal/audit"
	"github.com/LukePamlerr/ptero-discord-bot/internal/authz"
	"github.com/LukePamlerr/ptero-discord-bot/internal/config/store"
	"github.com/LukePamlerr/ptero-discord-bot/internal/panel"
	"github.com/LukePamlerr/ptero-discord-bot/internal/vault"
)

// ValidationError rejects malformed input before any network or storage
// call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidationError returns the validation failure carried by err, if any.
func IsValidationError(err error) (ValidationError, bool) {
	var target ValidationError
	ok := errors.As(err, &target)
	return target, ok
}

// Service composes the vault, store, gate, panel client and audit
// recorder into the operations the inbound surface exposes.
type Service struct {
	store              *store.Store
	cipher             *vault.Cipher
	gate               *authz.Gate
	audit              *audit.Recorder
	panelOpts          []panel.Option
	allowPrivatePanels bool
}

// Option customizes Service construction.
type Option func(*Service)

// WithPanelOptions forwards options to every panel client the service
// builds, such as a custom HTTP client.
func WithPanelOptions(opts ...panel.Option) Option {
	return func(s *Service) {
		s.panelOpts = opts
	}
}

// WithPrivatePanels permits panel URLs on loopback and private address
// ranges, which are rejected by default to keep the bot from being used
// as a proxy into internal infrastructure.
func WithPrivatePanels(allow bool) Option {
	return func(s *Service) {
		s.allowPrivatePanels = allow
	}
}

// New creates a Service over the given store and credential cipher.
func New(st *store.Store, cipher *vault.Cipher, opts ...Option) *Service {
	s := &Service{
		store:  st,
		cipher: cipher,
		gate:   authz.New(st),
		audit:  audit.New(st),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// client decrypts the account's credentials and builds a panel client
// for them. Credentials never leave this function in plaintext.
func (s *Service) client(account store.LinkedAccount) (*panel.Client, error) {
	panelURL, err := s.cipher.Decrypt(account.PanelURL)
	if err != nil {
		return nil, fmt.Errorf("bot: decrypt panel url: %w", err)
	}
	apiKey, err := s.cipher.Decrypt(account.APIKey)
	if err != nil {
		return nil, fmt.Errorf("bot: decrypt api key: %w", err)
	}
	return panel.New(panelURL, apiKey, s.panelOpts...)
}

// newCorrelationID tags one operation's audit trail.
func newCorrelationID() string {
	return uuid.NewString()
}

// record writes one audit entry for a completed operation. success is
// explicit because a panel call can fail without erroring, as when a
// power signal is accepted by the transport but rejected by the server.
func (s *Service) record(ctx context.Context, actorID, guildID, action, targetType, targetID string, details map[string]any, success bool, opErr error) {
	entry := audit.Entry{
		ActorID:    actorID,
		GuildID:    guildID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		Success:    success,
	}
	if opErr != nil {
		entry.ErrorMessage = opErr.Error()
	}
	s.audit.Record(ctx, entry)
}
