// Package views desenha as telas do agendactl em texto tabulado.
// Todas as funções são puras: recebem dados já carregados e escrevem em w.
package views

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/agiseventos/agenda/internal/client"
	"github.com/agiseventos/agenda/internal/domain"
)

const (
	dateTimeLayout = "02/01/2006 15:04"
	dashboardLimit = 5
	freeCell       = "Disponível"
)

var meetingLabels = map[string]string{
	domain.MeetingPending:   "Pendente",
	domain.MeetingConfirmed: "Confirmada",
	domain.MeetingCancelled: "Cancelada",
	domain.MeetingCompleted: "Concluída",
}

var requestLabels = map[string]string{
	domain.RequestPending:  "Pendente",
	domain.RequestApproved: "Aprovada",
	domain.RequestRejected: "Recusada",
}

var userTypeLabels = map[string]string{
	domain.UserTypeFabricante: "Fabricante",
	domain.UserTypeRevendedor: "Revendedor",
	domain.UserTypeAdmin:      "Administrador",
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Login confirma a autenticação.
func Login(w io.Writer, res client.AuthResult) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Bem-vindo, %s!\n", res.User.Name)
	fmt.Fprintf(tw, "Perfil:\t%s\n", label(userTypeLabels, res.User.UserType))
	fmt.Fprintf(tw, "Email:\t%s\n", res.User.Email)
	return tw.Flush()
}

// DashboardData agrega o que o painel inicial mostra.
type DashboardData struct {
	User          domain.User
	Stats         client.Stats
	Meetings      []domain.Meeting
	Notifications []domain.Notification
	Users         map[int64]domain.User
	Now           time.Time
	Location      *time.Location
}

// Dashboard mostra indicadores, próximas reuniões e notificações não lidas.
func Dashboard(w io.Writer, data DashboardData) error {
	loc := orUTC(data.Location)
	tw := newTable(w)

	fmt.Fprintf(tw, "Painel de %s\n\n", data.User.Name)

	s := data.Stats
	fmt.Fprintln(tw, "Indicadores")
	fmt.Fprintf(tw, "Total de reuniões:\t%d\n", s.TotalMeetings)
	fmt.Fprintf(tw, "Confirmadas:\t%d\n", s.ConfirmedMeetings)
	fmt.Fprintf(tw, "Pendentes:\t%d\n", s.PendingMeetings)
	fmt.Fprintf(tw, "Concluídas:\t%d\n", s.CompletedMeetings)
	fmt.Fprintf(tw, "Canceladas:\t%d\n", s.CancelledMeetings)
	fmt.Fprintf(tw, "Taxa de confirmação:\t%d%%\n", s.ConfirmationRate)
	fmt.Fprintf(tw, "Taxa de comparecimento:\t%d%%\n", s.AttendanceRate)
	fmt.Fprintf(tw, "Duração média:\t%d min\n", s.AverageDuration)

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Próximas reuniões")
	upcoming := upcomingMeetings(data.Meetings, data.Now)
	if len(upcoming) == 0 {
		fmt.Fprintln(tw, "Nenhuma reunião agendada")
	}
	for _, m := range upcoming {
		other := m.RevendedorID
		if data.User.ID == m.RevendedorID {
			other = m.FabricanteID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			m.ScheduledAt.In(loc).Format(dateTimeLayout),
			participant(data.Users, other),
			label(meetingLabels, m.Status))
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Notificações não lidas")
	unread := 0
	for _, n := range data.Notifications {
		if n.IsRead {
			continue
		}
		unread++
		if unread <= dashboardLimit {
			fmt.Fprintf(tw, "#%d\t%s\t%s\n", n.ID, n.Title, n.Message)
		}
	}
	if unread == 0 {
		fmt.Fprintln(tw, "Nenhuma notificação nova")
	} else if unread > dashboardLimit {
		fmt.Fprintf(tw, "... e mais %d\n", unread-dashboardLimit)
	}

	return tw.Flush()
}

// upcomingMeetings devolve as próximas reuniões não canceladas em ordem cronológica.
func upcomingMeetings(meetings []domain.Meeting, now time.Time) []domain.Meeting {
	var out []domain.Meeting
	for _, m := range meetings {
		if m.Status == domain.MeetingCancelled || m.ScheduledAt.Before(now) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	if len(out) > dashboardLimit {
		out = out[:dashboardLimit]
	}
	return out
}

// Meetings lista reuniões com os dois participantes.
func Meetings(w io.Writer, meetings []domain.Meeting, users map[int64]domain.User, loc *time.Location) error {
	loc = orUTC(loc)
	tw := newTable(w)
	if len(meetings) == 0 {
		fmt.Fprintln(tw, "Nenhuma reunião encontrada")
		return tw.Flush()
	}
	fmt.Fprintln(tw, "ID\tData\tDuração\tFabricante\tRevendedor\tLocal\tStatus")
	for _, m := range meetings {
		fmt.Fprintf(tw, "%d\t%s\t%d min\t%s\t%s\t%s\t%s\n",
			m.ID,
			m.ScheduledAt.In(loc).Format(dateTimeLayout),
			m.Duration,
			participant(users, m.FabricanteID),
			participant(users, m.RevendedorID),
			orDash(m.Location),
			label(meetingLabels, m.Status))
	}
	return tw.Flush()
}

// Requests separa solicitações recebidas e enviadas por viewer.
func Requests(w io.Writer, viewer domain.User, requests []domain.MeetingRequest, users map[int64]domain.User, loc *time.Location) error {
	loc = orUTC(loc)
	var received, sent []domain.MeetingRequest
	for _, req := range requests {
		if req.TargetID == viewer.ID {
			received = append(received, req)
		} else {
			sent = append(sent, req)
		}
	}

	tw := newTable(w)
	writeRequests(tw, "Recebidas", "De", received, func(r domain.MeetingRequest) int64 { return r.RequesterID }, users, loc)
	fmt.Fprintln(tw)
	writeRequests(tw, "Enviadas", "Para", sent, func(r domain.MeetingRequest) int64 { return r.TargetID }, users, loc)
	return tw.Flush()
}

func writeRequests(tw io.Writer, title, who string, requests []domain.MeetingRequest, other func(domain.MeetingRequest) int64, users map[int64]domain.User, loc *time.Location) {
	fmt.Fprintf(tw, "%s (%d)\n", title, len(requests))
	if len(requests) == 0 {
		return
	}
	fmt.Fprintf(tw, "ID\t%s\tHorário sugerido\tStatus\tMensagem\n", who)
	for _, req := range requests {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			req.ID,
			participant(users, other(req)),
			req.RequestedAt.In(loc).Format(dateTimeLayout),
			label(requestLabels, req.Status),
			orDash(req.Message))
	}
}

// Participants lista empresas cadastradas, ativas primeiro.
func Participants(w io.Writer, users []domain.User) error {
	sorted := append([]domain.User(nil), users...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IsActive != sorted[j].IsActive {
			return sorted[i].IsActive
		}
		return sorted[i].Name < sorted[j].Name
	})

	tw := newTable(w)
	if len(sorted) == 0 {
		fmt.Fprintln(tw, "Nenhum participante encontrado")
		return tw.Flush()
	}
	fmt.Fprintln(tw, "ID\tNome\tEmpresa\tTipo\tTelefone\tSituação")
	for _, u := range sorted {
		situation := "Ativo"
		if !u.IsActive {
			situation = "Inativo"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Name, orDash(u.Company), label(userTypeLabels, u.UserType), orDash(u.Phone), situation)
	}
	return tw.Flush()
}

// Profile mostra os dados cadastrais do usuário.
func Profile(w io.Writer, u domain.User) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Nome:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Empresa:\t%s\n", orDash(u.Company))
	fmt.Fprintf(tw, "Telefone:\t%s\n", orDash(u.Phone))
	fmt.Fprintf(tw, "Tipo:\t%s\n", label(userTypeLabels, u.UserType))
	fmt.Fprintf(tw, "Descrição:\t%s\n", orDash(u.Description))
	fmt.Fprintf(tw, "Foto:\t%s\n", orDash(u.ProfileImage))
	fmt.Fprintf(tw, "Membro desde:\t%s\n", u.CreatedAt.Format("02/01/2006"))
	return tw.Flush()
}

func participant(users map[int64]domain.User, id int64) string {
	u, ok := users[id]
	if !ok {
		return "#" + strconv.FormatInt(id, 10)
	}
	if u.Company != nil && *u.Company != "" {
		return u.Name + " (" + *u.Company + ")"
	}
	return u.Name
}

func label(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
