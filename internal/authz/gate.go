// Package authz decides whether an actor may perform a privileged action
// in a guild. Every privileged operation passes through the gate; there is
// no cached verdict and no session, so a revoked capability takes effect
// on the very next call.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/LukePamlerr/ptero-discord-bot/internal/config/store"
)

// Capability names a linked-account flag an action can require.
type Capability string

const (
	// CapabilityNone requires only a linked account.
	CapabilityNone Capability = ""
	// CapabilityManageServers gates power actions and console commands.
	CapabilityManageServers Capability = "can_manage_servers"
	// CapabilityCreateUsers gates panel user provisioning.
	CapabilityCreateUsers Capability = "can_create_users"
)

// DenyReason is the terminal state of a denied authorization check.
type DenyReason string

const (
	ReasonGuildNotConfigured DenyReason = "guild not configured"
	ReasonNotAdmin           DenyReason = "insufficient privilege"
	ReasonNotLinked          DenyReason = "credentials not configured"
	ReasonCapability         DenyReason = "capability not granted"
)

// DeniedError is the gate's deny verdict. It is a user-facing outcome, not
// a system fault: callers show Message to the actor and move on.
type DeniedError struct {
	Reason  DenyReason
	Message string
}

func (e DeniedError) Error() string {
	return fmt.Sprintf("authorization denied (%s): %s", e.Reason, e.Message)
}

// IsDenied returns the deny verdict carried by err, if any.
func IsDenied(err error) (DeniedError, bool) {
	var target DeniedError
	ok := errors.As(err, &target)
	return target, ok
}

// Actor describes the requesting member as reported by the chat platform.
// RoleIDs and IsAdmin come from the platform, not from storage; the gate
// trusts the caller to pass the actor's current state.
type Actor struct {
	ID      string
	RoleIDs []string
	IsAdmin bool // platform-native administrator permission
}

// Request is one authorization question: may Actor perform an action with
// these requirements in guild GuildID right now?
type Request struct {
	GuildID      string
	Actor        Actor
	RequireAdmin bool
	Capability   Capability
}

// Gate resolves authorization requests against the configuration store.
type Gate struct {
	store *store.Store
}

// New creates a Gate backed by the given store.
func New(s *store.Store) *Gate {
	return &Gate{store: s}
}

// Authorize walks the decision ladder and returns the actor's linked
// account on allow, so callers need not re-fetch it:
//
//  1. unknown guild               → deny (guild not configured)
//  2. admin required, not held    → deny (insufficient privilege)
//  3. no linked account           → deny (credentials not configured)
//  4. required capability false   → deny (capability not granted)
//  5. otherwise                   → allow
func (g *Gate) Authorize(ctx context.Context, req Request) (store.LinkedAccount, error) {
	guild, err := g.RequireGuild(ctx, req.GuildID)
	if err != nil {
		return store.LinkedAccount{}, err
	}

	if req.RequireAdmin && !isAdmin(guild, req.Actor) {
		return store.LinkedAccount{}, DeniedError{
			Reason:  ReasonNotAdmin,
			Message: "this action requires the guild's administrator role",
		}
	}

	account, err := g.store.GetLinkedAccount(ctx, req.Actor.ID, req.GuildID)
	if err != nil {
		if store.IsNotFound(err) {
			return store.LinkedAccount{}, DeniedError{
				Reason:  ReasonNotLinked,
				Message: "no panel credentials linked; run the link setup first",
			}
		}
		return store.LinkedAccount{}, fmt.Errorf("authz: resolve linked account: %w", err)
	}

	if !hasCapability(account, req.Capability) {
		return store.LinkedAccount{}, DeniedError{
			Reason:  ReasonCapability,
			Message: fmt.Sprintf("your linked account does not have the %s capability", req.Capability),
		}
	}

	return account, nil
}

// AuthorizeAdmin runs only the guild and admin steps of the ladder, for
// administrative actions that manage other members' accounts and need no
// panel credentials of their own.
func (g *Gate) AuthorizeAdmin(ctx context.Context, guildID string, actor Actor) (store.Guild, error) {
	guild, err := g.RequireGuild(ctx, guildID)
	if err != nil {
		return store.Guild{}, err
	}
	if !isAdmin(guild, actor) {
		return store.Guild{}, DeniedError{
			Reason:  ReasonNotAdmin,
			Message: "this action requires the guild's administrator role",
		}
	}
	return guild, nil
}

// RequireGuild resolves the guild or denies with the guild-not-configured
// reason. It is the first rung of the ladder and is exported for actions
// that need only a configured guild, like linking credentials.
func (g *Gate) RequireGuild(ctx context.Context, guildID string) (store.Guild, error) {
	guild, err := g.store.GetGuild(ctx, guildID)
	if err != nil {
		if store.IsNotFound(err) {
			return store.Guild{}, DeniedError{
				Reason:  ReasonGuildNotConfigured,
				Message: "this guild is not set up yet; an administrator must run setup first",
			}
		}
		return store.Guild{}, fmt.Errorf("authz: resolve guild: %w", err)
	}
	return guild, nil
}

// isAdmin checks elevated privilege: a guild-configured admin role wins
// over the platform admin flag; without a configured role the platform
// flag is the fallback.
func isAdmin(guild store.Guild, actor Actor) bool {
	if guild.AdminRoleID != nil {
		for _, role := range actor.RoleIDs {
			if role == *guild.AdminRoleID {
				return true
			}
		}
		return false
	}
	return actor.IsAdmin
}

func hasCapability(account store.LinkedAccount, capability Capability) bool {
	switch capability {
	case CapabilityNone:
		return true
	case CapabilityManageServers:
		return account.CanManageServers
	case CapabilityCreateUsers:
		return account.CanCreateUsers
	}
	return false
}
