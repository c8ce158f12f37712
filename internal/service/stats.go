package service

import (
	"context"
	"math"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/store"
)

// Stats resume as reuniões do usuário.
type Stats struct {
	TotalMeetings     int `json:"totalMeetings"`
	ConfirmedMeetings int `json:"confirmedMeetings"`
	CompletedMeetings int `json:"completedMeetings"`
	PendingMeetings   int `json:"pendingMeetings"`
	CancelledMeetings int `json:"cancelledMeetings"`
	AttendanceRate    int `json:"attendanceRate"`
	ConfirmationRate  int `json:"confirmationRate"`
	AverageDuration   int `json:"averageDuration"`
}

// StatsService calcula indicadores do painel.
type StatsService struct {
	store store.Meetings
}

func NewStatsService(meetings store.Meetings) *StatsService {
	return &StatsService{store: meetings}
}

func (s *StatsService) ForUser(ctx context.Context, actor domain.User) (Stats, error) {
	meetings, err := s.store.ListUserMeetings(ctx, actor.ID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(meetings), nil
}

// ComputeStats agrega contagens e taxas percentuais arredondadas.
func ComputeStats(meetings []domain.Meeting) Stats {
	var st Stats
	var minutes int
	for _, m := range meetings {
		st.TotalMeetings++
		minutes += m.Duration
		switch m.Status {
		case domain.MeetingConfirmed:
			st.ConfirmedMeetings++
		case domain.MeetingCompleted:
			st.CompletedMeetings++
		case domain.MeetingPending:
			st.PendingMeetings++
		case domain.MeetingCancelled:
			st.CancelledMeetings++
		}
	}
	if st.TotalMeetings == 0 {
		return st
	}
	st.AttendanceRate = percent(st.CompletedMeetings, st.TotalMeetings)
	st.ConfirmationRate = percent(st.ConfirmedMeetings, st.TotalMeetings)
	st.AverageDuration = int(math.Floor(float64(minutes)/float64(st.TotalMeetings) + 0.5))
	return st
}

func percent(part, total int) int {
	return int(math.Floor(float64(part)/float64(total)*100 + 0.5))
}
