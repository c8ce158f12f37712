package http

import (
	"net/http"

	"github.com/agiseventos/agenda/internal/domain"
)

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	items, err := h.deps.Notifications.List(r.Context(), currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(items))
}

func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var payload domain.NewNotification
	if !decodeJSON(w, r, &payload) {
		return
	}
	n, err := h.deps.Notifications.Create(r.Context(), currentUser(r), payload)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusCreated, n)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := h.deps.Notifications.MarkRead(r.Context(), currentUser(r), id)
	if err != nil {
		writeServiceError(w, r, err, "Notificação não encontrada")
		return
	}
	WriteJSON(w, http.StatusOK, n)
}
