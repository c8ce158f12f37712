package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/service"
	"github.com/agiseventos/agenda/internal/storage"
)

const userNotFound = "Usuário não encontrado"

// ListUsers lista participantes; aceita ?type= e ?active=true.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter := service.UserFilter{Type: r.URL.Query().Get("type")}
	if raw := r.URL.Query().Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "Filtro active inválido", nil)
			return
		}
		filter.ActiveOnly = active
	}
	h.listUsers(w, r, filter)
}

// ListUsersByType lista usuários de um tipo.
func (h *Handler) ListUsersByType(w http.ResponseWriter, r *http.Request) {
	h.listUsers(w, r, service.UserFilter{Type: chi.URLParam(r, "type")})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request, filter service.UserFilter) {
	filter.Type = strings.ToLower(strings.TrimSpace(filter.Type))
	if filter.Type != "" && !domain.IsValidUserType(filter.Type) {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "Tipo de usuário inválido", nil)
		return
	}
	users, err := h.deps.Users.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(users))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.deps.Users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, userNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// UpdateUser aplica atualização parcial no perfil.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch domain.UserPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	user, err := h.deps.Users.Update(r.Context(), currentUser(r), id, patch)
	if err != nil {
		writeServiceError(w, r, err, userNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// UploadAvatar recebe multipart com o campo "file".
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.deps.Users.AvatarsEnabled() {
		writeServiceError(w, r, storage.ErrNotConfigured, "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxAvatarSize+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "Arquivo excede o tamanho máximo", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", "Arquivo é obrigatório", nil)
		return
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, service.MaxAvatarSize+1))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "Falha ao ler arquivo", nil)
		return
	}

	user, err := h.deps.Users.SetProfileImage(r.Context(), currentUser(r), id, service.AvatarUpload{
		Filename: header.Filename,
		Body:     body,
	})
	if err != nil {
		writeServiceError(w, r, err, userNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// nonNil garante que listas vazias sejam serializadas como [].
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
