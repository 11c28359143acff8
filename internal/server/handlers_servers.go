package server

import (
	"net/http"

	"github.com/LukePamlerr/ptero-discord-bot/internal/config/store"
)

func (s *APIServer) handleListServers(w http.ResponseWriter, r *http.Request) {
	servers, err := s.service.ListServers(r.Context(), r.PathValue("guildID"), actorFromRequest(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, servers)
}

func (s *APIServer) handleServerInfo(w http.ResponseWriter, r *http.Request) {
	server, err := s.service.ServerInfo(r.Context(), r.PathValue("guildID"), actorFromRequest(r), r.PathValue("identifier"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, server)
}

func (s *APIServer) handlePowerAction(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Signal string `json:"signal"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	applied, err := s.service.PowerAction(r.Context(), r.PathValue("guildID"), actorFromRequest(r),
		r.PathValue("identifier"), body.Signal)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"applied": applied})
}

func (s *APIServer) handleSendCommand(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Command string `json:"command"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	delivered, err := s.service.SendCommand(r.Context(), r.PathValue("guildID"), actorFromRequest(r),
		r.PathValue("identifier"), body.Command)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"delivered": delivered})
}

func (s *APIServer) handleServerResources(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.service.ServerResources(r.Context(), r.PathValue("guildID"), actorFromRequest(r), r.PathValue("identifier"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *APIServer) handleLinkServer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Identifier string `json:"identifier"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	link, err := s.service.LinkServer(r.Context(), r.PathValue("guildID"), actorFromRequest(r), body.Identifier)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (s *APIServer) handleListServerLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.service.ListServerLinks(r.Context(), r.PathValue("guildID"), actorFromRequest(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (s *APIServer) handleSetServerOptions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AutoStart       *bool   `json:"auto_start"`
		NotifyChannelID *string `json:"notify_channel_id"`
		ClearNotify     bool    `json:"clear_notify"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	link, err := s.service.SetServerOptions(r.Context(), r.PathValue("guildID"), actorFromRequest(r),
		r.PathValue("identifier"), store.ServerLinkOptions{
			AutoStart:       body.AutoStart,
			NotifyChannelID: body.NotifyChannelID,
			ClearNotify:     body.ClearNotify,
		})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (s *APIServer) handleUnlinkServer(w http.ResponseWriter, r *http.Request) {
	if err := s.service.UnlinkServer(r.Context(), r.PathValue("guildID"), actorFromRequest(r), r.PathValue("identifier")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
