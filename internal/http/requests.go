package http

import (
	"net/http"

	"github.com/agiseventos/agenda/internal/domain"
)

const requestNotFound = "Solicitação não encontrada"

func (h *Handler) ListMeetingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.deps.Requests.List(r.Context(), currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(requests))
}

func (h *Handler) PendingMeetingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.deps.Requests.Pending(r.Context(), currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(requests))
}

// CreateMeetingRequest registra solicitação em nome do usuário autenticado.
func (h *Handler) CreateMeetingRequest(w http.ResponseWriter, r *http.Request) {
	var payload domain.NewMeetingRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	req, err := h.deps.Requests.Create(r.Context(), currentUser(r), payload)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusCreated, req)
}

// UpdateMeetingRequest responde (aprova/recusa) ou edita a solicitação.
func (h *Handler) UpdateMeetingRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch domain.MeetingRequestPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	req, err := h.deps.Requests.Update(r.Context(), currentUser(r), id, patch)
	if err != nil {
		writeServiceError(w, r, err, requestNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, req)
}
