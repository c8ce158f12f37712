package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/service"
	"github.com/agiseventos/agenda/internal/session"
	"github.com/agiseventos/agenda/internal/storage"
	"github.com/agiseventos/agenda/internal/store"
)

const maxJSONBody = 1 << 20

// SuccessEnvelope padroniza respostas com dados.
type SuccessEnvelope struct {
	Data  any `json:"data"`
	Error any `json:"error"`
}

// ErrorEnvelope padroniza respostas de erro.
type ErrorEnvelope struct {
	Data  any        `json:"data"`
	Error *ErrorBody `json:"error"`
}

// ErrorBody descreve falhas normalizadas.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// WriteJSON escreve envelope de sucesso.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(SuccessEnvelope{Data: data, Error: nil})
}

// WriteError escreve envelope de erro e mantém formato consistente.
func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Data:  nil,
		Error: &ErrorBody{Code: code, Message: message, Details: details},
	})
}

// writeServiceError traduz erros de serviço para status e mensagem.
// notFound é a mensagem usada quando o recurso não existe.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteError(w, http.StatusBadRequest, "VALIDATION", verr.Message, map[string]string{"field": verr.Field})
	case errors.Is(err, store.ErrNotFound):
		if notFound == "" {
			notFound = "Registro não encontrado"
		}
		WriteError(w, http.StatusNotFound, "NOT_FOUND", notFound, nil)
	case errors.Is(err, store.ErrDuplicateEmail):
		WriteError(w, http.StatusBadRequest, "VALIDATION", "Email já cadastrado", map[string]string{"field": "email"})
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "AUTH", "Email ou senha inválidos", nil)
	case errors.Is(err, session.ErrNotFound):
		WriteError(w, http.StatusUnauthorized, "AUTH", "Token inválido", nil)
	case errors.Is(err, service.ErrAccountDisabled):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "Conta desativada", nil)
	case errors.Is(err, service.ErrForbidden):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "Acesso negado", nil)
	case errors.Is(err, storage.ErrNotConfigured):
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Upload de arquivos não configurado", nil)
	default:
		log.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("erro inesperado")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
	}
}

// decodeJSON lê o corpo em dst; false significa que a resposta de erro já foi escrita.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "Dados inválidos", nil)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "ID inválido", nil)
		return 0, false
	}
	return id, true
}
