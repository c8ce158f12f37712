// Package report gera planilhas XLSX das reuniões.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/agiseventos/agenda/internal/domain"
)

const sheetName = "Reuniões"

var header = []interface{}{
	"ID",
	"Data",
	"Horário",
	"Duração (min)",
	"Fabricante",
	"Revendedor",
	"Local",
	"Status",
	"Observações",
	"Resultado",
}

var statusLabels = map[string]string{
	domain.MeetingPending:   "Pendente",
	domain.MeetingConfirmed: "Confirmada",
	domain.MeetingCancelled: "Cancelada",
	domain.MeetingCompleted: "Concluída",
}

// WriteMeetings escreve a planilha em w. users resolve os nomes dos participantes.
func WriteMeetings(w io.Writer, meetings []domain.Meeting, users map[int64]domain.User, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("renomear planilha: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("cabeçalho: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(sheetName, 1, 1, bold)
	}

	for i, m := range meetings {
		at := m.ScheduledAt.In(loc)
		row := []interface{}{
			m.ID,
			at.Format("02/01/2006"),
			at.Format("15:04"),
			m.Duration,
			participantName(users, m.FabricanteID),
			participantName(users, m.RevendedorID),
			deref(m.Location),
			statusLabel(m.Status),
			deref(m.Notes),
			deref(m.Result),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("linha %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(sheetName, "E", "F", 28)
	_ = f.SetColWidth(sheetName, "I", "J", 40)

	return f.Write(w)
}

func participantName(users map[int64]domain.User, id int64) string {
	u, ok := users[id]
	if !ok {
		return fmt.Sprintf("#%d", id)
	}
	if u.Company != nil && *u.Company != "" {
		return fmt.Sprintf("%s (%s)", u.Name, *u.Company)
	}
	return u.Name
}

func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
