package http

import (
	"net/http"

	"github.com/agiseventos/agenda/internal/domain"
)

const eventNotFound = "Evento não encontrado"

// ListEvents lista eventos ativos; ?all=true inclui inativos (admin).
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("all") == "true"
	events, err := h.deps.Events.List(r.Context(), currentUser(r), all)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(events))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	event, err := h.deps.Events.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, eventNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var payload domain.NewEvent
	if !decodeJSON(w, r, &payload) {
		return
	}
	event, err := h.deps.Events.Create(r.Context(), currentUser(r), payload)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusCreated, event)
}

// EventMeetings lista as reuniões de um evento.
func (h *Handler) EventMeetings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	meetings, err := h.deps.Events.Meetings(r.Context(), currentUser(r), id)
	if err != nil {
		writeServiceError(w, r, err, eventNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(meetings))
}
