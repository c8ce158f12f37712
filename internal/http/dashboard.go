package http

import (
	"net/http"
	"time"
)

// Stats devolve os indicadores das reuniões do usuário.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.Stats.ForUser(r.Context(), currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// DailySchedule devolve a grade simulada do dia (?date=YYYY-MM-DD).
func (h *Handler) DailySchedule(w http.ResponseWriter, r *http.Request) {
	day, err := h.deps.Schedule.Daily(r.Context(), currentUser(r), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, day)
}

func (h *Handler) location() *time.Location {
	if h.cfg.ScheduleTimezone != nil {
		return h.cfg.ScheduleTimezone
	}
	return time.UTC
}
