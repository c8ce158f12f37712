package views

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agiseventos/agenda/internal/client"
	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/schedule"
)

func strPtr(s string) *string { return &s }

var (
	fab = domain.User{ID: 1, Name: "João Silva", Company: strPtr("Indústria ABC"), UserType: domain.UserTypeFabricante, IsActive: true}
	rev = domain.User{ID: 2, Name: "Ana Costa", Company: strPtr("Distribuidora Norte"), UserType: domain.UserTypeRevendedor, IsActive: true}
)

func usersByID(users ...domain.User) map[int64]domain.User {
	out := make(map[int64]domain.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("saída sem %q:\n%s", w, out)
		}
	}
}

func TestLogin(t *testing.T) {
	var buf bytes.Buffer
	if err := Login(&buf, client.AuthResult{User: fab, Token: "tok"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	assertContains(t, buf.String(), "Bem-vindo, João Silva!", "Fabricante")
	if strings.Contains(buf.String(), "tok") {
		t.Fatalf("token não deve aparecer na tela")
	}
}

func TestDashboard(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	data := DashboardData{
		User:  fab,
		Stats: client.Stats{TotalMeetings: 3, ConfirmedMeetings: 2, PendingMeetings: 1, ConfirmationRate: 67},
		Meetings: []domain.Meeting{
			{ID: 1, FabricanteID: 1, RevendedorID: 2, ScheduledAt: now.Add(48 * time.Hour), Status: domain.MeetingConfirmed},
			{ID: 2, FabricanteID: 1, RevendedorID: 9, ScheduledAt: now.Add(24 * time.Hour), Status: domain.MeetingPending},
			{ID: 3, FabricanteID: 1, RevendedorID: 2, ScheduledAt: now.Add(-time.Hour), Status: domain.MeetingConfirmed},
			{ID: 4, FabricanteID: 1, RevendedorID: 2, ScheduledAt: now.Add(time.Hour), Status: domain.MeetingCancelled},
		},
		Notifications: []domain.Notification{
			{ID: 1, Title: "Nova solicitação", Message: "Ana quer reunir"},
			{ID: 2, Title: "Lida", Message: "antiga", IsRead: true},
		},
		Users: usersByID(fab, rev),
		Now:   now,
	}

	var buf bytes.Buffer
	if err := Dashboard(&buf, data); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	out := buf.String()
	assertContains(t, out, "Painel de João Silva", "67%", "Nova solicitação", "#9", "Ana Costa (Distribuidora Norte)")
	if strings.Contains(out, "antiga") {
		t.Fatalf("notificação lida apareceu:\n%s", out)
	}
	if strings.Index(out, "#9") > strings.Index(out, "Ana Costa") {
		t.Fatalf("próximas reuniões fora de ordem:\n%s", out)
	}
	if strings.Contains(out, "01/06/2025 13:00") {
		t.Fatalf("reunião cancelada listada como próxima:\n%s", out)
	}
}

func TestDashboardEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Dashboard(&buf, DashboardData{User: rev}); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	assertContains(t, buf.String(), "Nenhuma reunião agendada", "Nenhuma notificação nova")
}

func TestMeetings(t *testing.T) {
	at := time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)
	loc := time.FixedZone("BRT", -3*3600)
	meetings := []domain.Meeting{{ID: 7, FabricanteID: 1, RevendedorID: 2, ScheduledAt: at, Duration: 30, Location: strPtr("Mesa 3"), Status: domain.MeetingPending}}

	var buf bytes.Buffer
	if err := Meetings(&buf, meetings, usersByID(fab, rev), loc); err != nil {
		t.Fatalf("meetings: %v", err)
	}
	assertContains(t, buf.String(), "02/06/2025 14:00", "30 min", "Indústria ABC", "Mesa 3", "Pendente")

	buf.Reset()
	if err := Meetings(&buf, nil, nil, nil); err != nil {
		t.Fatalf("meetings: %v", err)
	}
	assertContains(t, buf.String(), "Nenhuma reunião encontrada")
}

func TestRequestsSplitsReceivedAndSent(t *testing.T) {
	requests := []domain.MeetingRequest{
		{ID: 1, RequesterID: 2, TargetID: 1, Status: domain.RequestPending, Message: strPtr("Vamos conversar?")},
		{ID: 2, RequesterID: 1, TargetID: 2, Status: domain.RequestRejected},
	}

	var buf bytes.Buffer
	if err := Requests(&buf, fab, requests, usersByID(fab, rev), nil); err != nil {
		t.Fatalf("requests: %v", err)
	}
	out := buf.String()
	assertContains(t, out, "Recebidas (1)", "Enviadas (1)", "Vamos conversar?", "Recusada")
	if strings.Index(out, "Vamos conversar?") > strings.Index(out, "Enviadas") {
		t.Fatalf("solicitação recebida na seção errada:\n%s", out)
	}
}

func TestParticipantsActiveFirst(t *testing.T) {
	inactive := domain.User{ID: 3, Name: "Aaron", UserType: domain.UserTypeRevendedor}
	var buf bytes.Buffer
	if err := Participants(&buf, []domain.User{inactive, rev, fab}); err != nil {
		t.Fatalf("participants: %v", err)
	}
	out := buf.String()
	assertContains(t, out, "Inativo", "Revendedor", "Fabricante")
	if strings.Index(out, "Aaron") < strings.Index(out, "João Silva") {
		t.Fatalf("inativo deveria vir por último:\n%s", out)
	}
}

func TestProfile(t *testing.T) {
	var buf bytes.Buffer
	if err := Profile(&buf, rev); err != nil {
		t.Fatalf("profile: %v", err)
	}
	assertContains(t, buf.String(), "Ana Costa", "Distribuidora Norte", "Telefone:", "-")
}

func scheduleDay() schedule.Day {
	return schedule.Day{
		Date:        "2025-06-02",
		TimeSlots:   []schedule.Slot{{Time: "08:00", Hour: 8}, {Time: "08:30", Hour: 8, Minute: 30}, {Time: "09:00", Hour: 9}},
		Fabricantes: []domain.User{fab, {ID: 6, Name: "Paulo", UserType: domain.UserTypeFabricante}},
		Meetings: []schedule.Meeting{
			{ID: "1-08:00", FabricanteID: 1, RevendedorID: 2, RevendedorName: "Ana Costa", TimeSlot: "08:00", Location: "Mesa 4", Status: domain.MeetingConfirmed},
			{ID: "6-09:00", FabricanteID: 6, RevendedorID: 2, RevendedorName: "Ana Costa", TimeSlot: "09:00", Location: "Mesa 1", Status: domain.MeetingPending},
		},
		Settings: schedule.Settings{StartTime: 8, EndTime: 18, SlotDuration: 30},
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(scheduleDay())
	want := ScheduleSummary{Total: 2, Confirmed: 1, Pending: 1, Free: 4}
	if got != want {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
}

func TestScheduleGrid(t *testing.T) {
	var buf bytes.Buffer
	if err := Schedule(&buf, scheduleDay()); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	out := buf.String()
	assertContains(t, out, "Agenda de 2025-06-02 (08:00 às 18:00, 30 min)", "Mesa 4", "Confirmada", "Horários livres:  4")

	lines := strings.Split(out, "\n")
	var row830 string
	for _, l := range lines {
		if strings.HasPrefix(l, "08:30") {
			row830 = l
		}
	}
	if strings.Count(row830, freeCell) != 2 {
		t.Fatalf("linha 08:30 deveria estar livre nas duas colunas: %q", row830)
	}
}

func TestScheduleWithoutFabricantes(t *testing.T) {
	var buf bytes.Buffer
	if err := Schedule(&buf, schedule.Day{Date: "2025-06-02"}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	assertContains(t, buf.String(), "Nenhum fabricante visível")
}
