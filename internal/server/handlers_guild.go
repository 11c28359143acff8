package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/LukePamlerr/ptero-discord-bot/internal/config/store"
)

// decodeBody fills dst from the request body, tolerating an empty body
// for endpoints whose payload is optional. dst keeps its zero value when
// no body was sent.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return false
	}
	return true
}

func (s *APIServer) handleSetupGuild(w http.ResponseWriter, r *http.Request) {
	guild, err := s.service.SetupGuild(r.Context(), r.PathValue("guildID"), actorFromRequest(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, guild)
}

func (s *APIServer) handleSetAdminRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RoleID *string `json:"role_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.service.UpdateGuildAdminRole(r.Context(), r.PathValue("guildID"), actorFromRequest(r), body.RoleID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *APIServer) handleTeardownGuild(w http.ResponseWriter, r *http.Request) {
	if err := s.service.TeardownGuild(r.Context(), r.PathValue("guildID"), actorFromRequest(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *APIServer) handleLinkPanel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PanelURL string `json:"panel_url"`
		APIKey   string `json:"api_key"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.service.LinkPanel(r.Context(), r.PathValue("guildID"), actorFromRequest(r), body.PanelURL, body.APIKey); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *APIServer) handlePanelStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.Status(r.Context(), r.PathValue("guildID"), actorFromRequest(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *APIServer) handleUnlinkPanel(w http.ResponseWriter, r *http.Request) {
	if err := s.service.UnlinkPanel(r.Context(), r.PathValue("guildID"), actorFromRequest(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *APIServer) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.service.ListMembers(r.Context(), r.PathValue("guildID"), actorFromRequest(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *APIServer) handleSetMemberPermissions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CanManageServers *bool `json:"can_manage_servers"`
		CanCreateUsers   *bool `json:"can_create_users"`
		MaxServers       *int  `json:"max_servers"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	account, err := s.service.SetMemberPermissions(r.Context(), r.PathValue("guildID"), actorFromRequest(r),
		r.PathValue("memberID"), store.CapabilityUpdate{
			CanManageServers: body.CanManageServers,
			CanCreateUsers:   body.CanCreateUsers,
			MaxServers:       body.MaxServers,
		})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	account.PanelURL = ""
	account.APIKey = ""
	writeJSON(w, http.StatusOK, account)
}

func (s *APIServer) handleResetMember(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ResetMember(r.Context(), r.PathValue("guildID"), actorFromRequest(r), r.PathValue("memberID")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *APIServer) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.AuditFilter{
		ActorID: query.Get("actor_id"),
		Action:  query.Get("action"),
		Since:   query.Get("since"),
	}
	if raw := query.Get("limit"); raw != "" {
		limit, provided, err := parseQueryIntParam(query, "limit")
		if err != nil || !provided {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}
	records, err := s.service.AuditLog(r.Context(), r.PathValue("guildID"), actorFromRequest(r), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
