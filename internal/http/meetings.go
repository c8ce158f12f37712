package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/report"
	"github.com/agiseventos/agenda/internal/service"
)

const meetingNotFound = "Reunião não encontrada"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListMeetings lista as reuniões do usuário autenticado.
func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.deps.Meetings.ListForUser(r.Context(), currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(meetings))
}

func (h *Handler) ListAllMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.deps.Meetings.ListAll(r.Context(), currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(meetings))
}

// ExportMeetings gera planilha XLSX das reuniões visíveis ao usuário.
func (h *Handler) ExportMeetings(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(r)
	meetings, err := h.deps.Meetings.ListVisible(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	users, err := h.deps.Users.List(r.Context(), service.UserFilter{})
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	byID := make(map[int64]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	var buf bytes.Buffer
	if err := report.WriteMeetings(&buf, meetings, byID, h.location()); err != nil {
		writeServiceError(w, r, fmt.Errorf("exportar reuniões: %w", err), "")
		return
	}

	filename := fmt.Sprintf("reunioes-%s.xlsx", h.now().In(h.location()).Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Warn().Err(err).Int64("user_id", actor.ID).Msg("export: falha ao escrever planilha")
	}
}

func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	meeting, err := h.deps.Meetings.Get(r.Context(), currentUser(r), id)
	if err != nil {
		writeServiceError(w, r, err, meetingNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, meeting)
}

func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var payload domain.NewMeeting
	if !decodeJSON(w, r, &payload) {
		return
	}
	meeting, err := h.deps.Meetings.Create(r.Context(), currentUser(r), payload)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusCreated, meeting)
}

func (h *Handler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch domain.MeetingPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	meeting, err := h.deps.Meetings.Update(r.Context(), currentUser(r), id, patch)
	if err != nil {
		writeServiceError(w, r, err, meetingNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, meeting)
}
