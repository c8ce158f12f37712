package http

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/agiseventos/agenda/internal/domain"
	httpmiddleware "github.com/agiseventos/agenda/internal/http/middleware"
	"github.com/agiseventos/agenda/internal/service"
)

// Login autentica por email e senha.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload domain.Credentials
	if !decodeJSON(w, r, &payload) {
		return
	}

	result, err := h.deps.Auth.Login(r.Context(), payload)
	if err != nil {
		h.deps.Metrics.ObserveLogin(loginFailure(err))
		writeServiceError(w, r, err, "")
		return
	}

	h.deps.Metrics.ObserveLogin("success")
	WriteJSON(w, http.StatusOK, result)
}

// Register cria conta e já devolve sessão.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var payload domain.NewUser
	if !decodeJSON(w, r, &payload) {
		return
	}

	result, err := h.deps.Auth.Register(r.Context(), payload)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	WriteJSON(w, http.StatusCreated, result)
}

// CurrentUser devolve o usuário da sessão.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, currentUser(r))
}

// Logout revoga o token atual.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Auth.Logout(r.Context(), httpmiddleware.GetToken(r.Context())); err != nil {
		log.Warn().Err(err).Int64("user_id", currentUser(r).ID).Msg("logout: falha ao remover sessão")
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Logout realizado com sucesso"})
}

func loginFailure(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return "invalid_input"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, service.ErrAccountDisabled):
		return "disabled"
	default:
		return "error"
	}
}
