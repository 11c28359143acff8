package server

import (
	"net/http"

	"github.com/LukePamlerr/ptero-discord-bot/internal/panel"
)

func (s *APIServer) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body panel.NewUser
	if !decodeBody(w, r, &body) {
		return
	}
	user, err := s.service.CreatePanelUser(r.Context(), r.PathValue("guildID"), actorFromRequest(r), body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *APIServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.service.ListPanelUsers(r.Context(), r.PathValue("guildID"), actorFromRequest(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *APIServer) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	user, err := s.service.PanelUserInfo(r.Context(), r.PathValue("guildID"), actorFromRequest(r), r.PathValue("userID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *APIServer) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var body panel.UserUpdate
	if !decodeBody(w, r, &body) {
		return
	}
	applied, err := s.service.UpdatePanelUser(r.Context(), r.PathValue("guildID"), actorFromRequest(r), r.PathValue("userID"), body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"applied": applied})
}

func (s *APIServer) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.service.DeletePanelUser(r.Context(), r.PathValue("guildID"), actorFromRequest(r), r.PathValue("userID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}
