// Package server exposes the bot's operations over a small HTTP admin
// API. It is the boundary a chat front-end calls; the front-end is
// trusted to report actor identity via headers, and the API itself is
// protected by a bearer token.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/LukePamlerr/ptero-discord-bot/internal/authz"
	"github.com/LukePamlerr/ptero-discord-bot/internal/bot"
)

// APIServer serves the admin API over HTTP.
type APIServer struct {
	service *bot.Service
	token   string
	http    *http.Server
}

// New creates an APIServer for the given service. token must be non-empty;
// every request has to present it as a bearer credential.
func New(service *bot.Service, addr, token string) *APIServer {
	s := &APIServer{service: service, token: token}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start listens and serves until Shutdown. It blocks; run it in its own
// goroutine.
func (s *APIServer) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	log.Printf("[APIServer] listening on %s", ln.Addr())
	if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *APIServer) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler returns the fully routed handler, exposed for tests.
func (s *APIServer) Handler() http.Handler {
	return s.http.Handler
}

func (s *APIServer) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", s.handleHealth)

	mux.HandleFunc("POST /v1/guilds/{guildID}/setup", s.handleSetupGuild)
	mux.HandleFunc("PUT /v1/guilds/{guildID}/admin-role", s.handleSetAdminRole)
	mux.HandleFunc("DELETE /v1/guilds/{guildID}", s.handleTeardownGuild)

	mux.HandleFunc("POST /v1/guilds/{guildID}/panel", s.handleLinkPanel)
	mux.HandleFunc("GET /v1/guilds/{guildID}/panel", s.handlePanelStatus)
	mux.HandleFunc("DELETE /v1/guilds/{guildID}/panel", s.handleUnlinkPanel)

	mux.HandleFunc("GET /v1/guilds/{guildID}/members", s.handleListMembers)
	mux.HandleFunc("PATCH /v1/guilds/{guildID}/members/{memberID}", s.handleSetMemberPermissions)
	mux.HandleFunc("DELETE /v1/guilds/{guildID}/members/{memberID}", s.handleResetMember)
	mux.HandleFunc("GET /v1/guilds/{guildID}/audit", s.handleAuditLog)

	mux.HandleFunc("GET /v1/guilds/{guildID}/servers", s.handleListServers)
	mux.HandleFunc("GET /v1/guilds/{guildID}/servers/{identifier}", s.handleServerInfo)
	mux.HandleFunc("POST /v1/guilds/{guildID}/servers/{identifier}/power", s.handlePowerAction)
	mux.HandleFunc("POST /v1/guilds/{guildID}/servers/{identifier}/command", s.handleSendCommand)
	mux.HandleFunc("GET /v1/guilds/{guildID}/servers/{identifier}/resources", s.handleServerResources)

	mux.HandleFunc("POST /v1/guilds/{guildID}/server-links", s.handleLinkServer)
	mux.HandleFunc("GET /v1/guilds/{guildID}/server-links", s.handleListServerLinks)
	mux.HandleFunc("PATCH /v1/guilds/{guildID}/server-links/{identifier}", s.handleSetServerOptions)
	mux.HandleFunc("DELETE /v1/guilds/{guildID}/server-links/{identifier}", s.handleUnlinkServer)

	mux.HandleFunc("POST /v1/guilds/{guildID}/users", s.handleCreateUser)
	mux.HandleFunc("GET /v1/guilds/{guildID}/users", s.handleListUsers)
	mux.HandleFunc("GET /v1/guilds/{guildID}/users/{userID}", s.handleUserInfo)
	mux.HandleFunc("PATCH /v1/guilds/{guildID}/users/{userID}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /v1/guilds/{guildID}/users/{userID}", s.handleDeleteUser)

	return s.requireAuth(mux)
}

// requireAuth rejects requests that do not present the configured bearer
// token. The health endpoint is exempt so probes need no credentials.
func (s *APIServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/health" {
			next.ServeHTTP(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" || token != s.token {
			writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// actorFromRequest reads the actor identity the front-end reports. The
// front-end is in position to lie; the bearer token is what makes it
// trustworthy.
func actorFromRequest(r *http.Request) authz.Actor {
	actor := authz.Actor{
		ID:      r.Header.Get("X-Actor-ID"),
		IsAdmin: r.Header.Get("X-Actor-Admin") == "true",
	}
	if roles := r.Header.Get("X-Actor-Roles"); roles != "" {
		actor.RoleIDs = strings.Split(roles, ",")
	}
	return actor
}

func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseQueryIntParam extracts a non-negative integer query parameter.
// Returns (value, provided, error).
func parseQueryIntParam(query url.Values, name string) (int, bool, error) {
	raw := strings.TrimSpace(query.Get(name))
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, err
	}
	if value < 0 {
		return 0, true, fmt.Errorf("value must be non-negative")
	}
	return value, true, nil
}
