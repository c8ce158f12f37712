package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/schedule"
)

// ScheduleSummary conta as células da grade.
type ScheduleSummary struct {
	Total     int
	Confirmed int
	Pending   int
	Completed int
	Cancelled int
	Free      int
}

// Summarize conta reuniões por status. Livres = horários × fabricantes − reuniões.
func Summarize(day schedule.Day) ScheduleSummary {
	s := ScheduleSummary{Total: len(day.Meetings)}
	for _, m := range day.Meetings {
		switch m.Status {
		case domain.MeetingConfirmed:
			s.Confirmed++
		case domain.MeetingPending:
			s.Pending++
		case domain.MeetingCompleted:
			s.Completed++
		case domain.MeetingCancelled:
			s.Cancelled++
		}
	}
	s.Free = len(day.TimeSlots)*len(day.Fabricantes) - s.Total
	if s.Free < 0 {
		s.Free = 0
	}
	return s
}

// Schedule desenha a grade do dia: uma linha por horário, uma coluna por fabricante.
func Schedule(w io.Writer, day schedule.Day) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Agenda de %s (%02d:00 às %02d:00, %d min)\n\n",
		day.Date, day.Settings.StartTime, day.Settings.EndTime, day.Settings.SlotDuration)

	if len(day.Fabricantes) == 0 {
		fmt.Fprintln(tw, "Nenhum fabricante visível")
		return tw.Flush()
	}

	type cellKey struct {
		fabricante int64
		slot       string
	}
	cells := make(map[cellKey]schedule.Meeting, len(day.Meetings))
	for _, m := range day.Meetings {
		cells[cellKey{m.FabricanteID, m.TimeSlot}] = m
	}

	header := []string{"Horário"}
	for _, f := range day.Fabricantes {
		header = append(header, participant(map[int64]domain.User{f.ID: f}, f.ID))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, slot := range day.TimeSlots {
		row := []string{slot.Time}
		for _, f := range day.Fabricantes {
			m, ok := cells[cellKey{f.ID, slot.Time}]
			if !ok {
				row = append(row, freeCell)
				continue
			}
			row = append(row, fmt.Sprintf("%s · %s · %s", m.RevendedorName, m.Location, label(meetingLabels, m.Status)))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	s := Summarize(day)
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Reuniões:\t%d\n", s.Total)
	fmt.Fprintf(tw, "Confirmadas:\t%d\n", s.Confirmed)
	fmt.Fprintf(tw, "Pendentes:\t%d\n", s.Pending)
	fmt.Fprintf(tw, "Concluídas:\t%d\n", s.Completed)
	fmt.Fprintf(tw, "Canceladas:\t%d\n", s.Cancelled)
	fmt.Fprintf(tw, "Horários livres:\t%d\n", s.Free)
	return tw.Flush()
}
