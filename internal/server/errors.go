package server

import (
	"errors"
	"net/http"

	"github.com/LukePamlerr/ptero-discord-bot/internal/authz"
	"github.com/LukePamlerr/ptero-discord-bot/internal/bot"
	"github.com/LukePamlerr/ptero-discord-bot/internal/config/store"
	"github.com/LukePamlerr/ptero-discord-bot/internal/panel"
	"github.com/LukePamlerr/ptero-discord-bot/internal/vault"
)

// writeServiceError maps service failures onto HTTP statuses: caller
// mistakes and denials are 4xx, remote panel trouble is 502, everything
// else is 500. Internal detail stays out of 5xx bodies.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation bot.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, validation.Error())
		return
	}
	if denied, ok := authz.IsDenied(err); ok {
		writeError(w, http.StatusForbidden, denied.Message)
		return
	}
	var limit bot.ServerLimitError
	if errors.As(err, &limit) {
		writeError(w, http.StatusConflict, limit.Error())
		return
	}
	if errors.Is(err, bot.ErrPanelProbeFailed) {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if store.IsNotFound(err) || panel.IsNotFound(err) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	var authErr panel.AuthError
	var permErr panel.PermissionError
	var transportErr panel.TransportError
	if errors.As(err, &authErr) || errors.As(err, &permErr) || errors.As(err, &transportErr) {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if vault.IsDecryptionError(err) {
		writeError(w, http.StatusInternalServerError, "stored credentials could not be decrypted")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}
