// Package schedule sintetiza a grade diária de reuniões exibida no painel.
// A grade é simulada: sorteada a cada chamada e nunca persistida.
package schedule

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/store"
)

const (
	dayStartHour = 8
	dayEndHour   = 18

	minSlotsPerFabricante = 2
	maxSlotsPerFabricante = 4
	maxDrawAttempts       = 10
	tableCount            = 20

	dateLayout = "2006-01-02"
)

// Slot é uma linha da grade.
type Slot struct {
	Time   string `json:"time"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
}

// Meeting é uma célula ocupada da grade.
type Meeting struct {
	ID                string    `json:"id"`
	FabricanteID      int64     `json:"fabricanteId"`
	RevendedorID      int64     `json:"revendedorId"`
	RevendedorName    string    `json:"revendedorName"`
	RevendedorCompany *string   `json:"revendedorCompany"`
	TimeSlot          string    `json:"timeSlot"`
	ScheduledAt       time.Time `json:"scheduledAt"`
	Duration          int       `json:"duration"`
	Location          string    `json:"location"`
	Status            string    `json:"status"`
}

// Settings descreve a janela usada para gerar a grade.
type Settings struct {
	StartTime    int `json:"startTime"`
	EndTime      int `json:"endTime"`
	SlotDuration int    `json:"slotDuration"`
}

// Day é a grade completa de um dia.
type Day struct {
	Date        string        `json:"date"`
	TimeSlots   []Slot        `json:"timeSlots"`
	Fabricantes []domain.User `json:"fabricantes"`
	Meetings    []Meeting     `json:"meetings"`
	Settings    Settings      `json:"settings"`
}

// Generator sorteia grades com a fonte de aleatoriedade injetada.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	loc *time.Location
}

func NewGenerator(rnd *rand.Rand, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{rnd: rnd, loc: loc}
}

// ParseDate interpreta YYYY-MM-DD no fuso do gerador; vazio significa hoje.
func (g *Generator) ParseDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		y, m, d := now.In(g.loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, g.loc), nil
	}
	day, err := time.ParseInLocation(dateLayout, value, g.loc)
	if err != nil {
		return time.Time{}, domain.Invalid("date", "Data inválida, use AAAA-MM-DD")
	}
	return day, nil
}

// TimeSlots divide a janela 08:00–18:00 em intervalos de slotMinutes.
// Um intervalo que terminaria depois das 18:00 é descartado.
func TimeSlots(slotMinutes int) []Slot {
	if slotMinutes <= 0 {
		slotMinutes = domain.DefaultSlotDuration
	}
	var slots []Slot
	for minutes := dayStartHour * 60; minutes+slotMinutes <= dayEndHour*60; minutes += slotMinutes {
		h, m := minutes/60, minutes%60
		slots = append(slots, Slot{Time: fmt.Sprintf("%02d:%02d", h, m), Hour: h, Minute: m})
	}
	return slots
}

// Generate sorteia de 2 a 4 slots distintos para cada fabricante, cada um com
// revendedor, mesa e status aleatórios.
func (g *Generator) Generate(day time.Time, slotMinutes int, fabricantes, revendedores []domain.User) Day {
	if slotMinutes <= 0 {
		slotMinutes = domain.DefaultSlotDuration
	}
	slots := TimeSlots(slotMinutes)
	y, mo, d := day.In(g.loc).Date()

	out := Day{
		Date:        day.In(g.loc).Format(dateLayout),
		TimeSlots:   slots,
		Fabricantes: fabricantes,
		Meetings:    []Meeting{},
		Settings: Settings{
			StartTime:    dayStartHour,
			EndTime:      dayEndHour,
			SlotDuration: slotMinutes,
		},
	}
	if out.Fabricantes == nil {
		out.Fabricantes = []domain.User{}
	}
	if len(revendedores) == 0 || len(slots) == 0 {
		return out
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, fab := range fabricantes {
		for _, idx := range g.drawSlots(len(slots)) {
			slot := slots[idx]
			rev := revendedores[g.rnd.Intn(len(revendedores))]
			out.Meetings = append(out.Meetings, Meeting{
				ID:                fmt.Sprintf("mock-%d-%d", fab.ID, idx),
				FabricanteID:      fab.ID,
				RevendedorID:      rev.ID,
				RevendedorName:    rev.Name,
				RevendedorCompany: rev.Company,
				TimeSlot:          slot.Time,
				ScheduledAt:       time.Date(y, mo, d, slot.Hour, slot.Minute, 0, 0, g.loc),
				Duration:          slotMinutes,
				Location:          fmt.Sprintf("Mesa %d", 1+g.rnd.Intn(tableCount)),
				Status:            g.drawStatus(),
			})
		}
	}
	return out
}

// drawSlots escolhe índices distintos; colisões repetem o sorteio até o limite.
func (g *Generator) drawSlots(total int) []int {
	want := minSlotsPerFabricante + g.rnd.Intn(maxSlotsPerFabricante-minSlotsPerFabricante+1)
	used := make(map[int]bool, want)
	picked := make([]int, 0, want)
	for i := 0; i < want; i++ {
		for attempt := 0; attempt < maxDrawAttempts; attempt++ {
			idx := g.rnd.Intn(total)
			if !used[idx] {
				used[idx] = true
				picked = append(picked, idx)
				break
			}
		}
	}
	sort.Ints(picked)
	return picked
}

func (g *Generator) drawStatus() string {
	switch n := g.rnd.Intn(100); {
	case n < 50:
		return domain.MeetingConfirmed
	case n < 80:
		return domain.MeetingPending
	case n < 95:
		return domain.MeetingCompleted
	default:
		return domain.MeetingCancelled
	}
}

// Visible recorta a grade para o usuário: admin vê tudo, fabricante vê a
// própria coluna e revendedor vê só os fabricantes com quem tem reunião.
func Visible(day Day, viewer domain.User) Day {
	switch viewer.UserType {
	case domain.UserTypeAdmin:
		return day
	case domain.UserTypeFabricante:
		day.Meetings = filterMeetings(day.Meetings, func(m Meeting) bool { return m.FabricanteID == viewer.ID })
		day.Fabricantes = filterUsers(day.Fabricantes, func(u domain.User) bool { return u.ID == viewer.ID })
	default:
		day.Meetings = filterMeetings(day.Meetings, func(m Meeting) bool { return m.RevendedorID == viewer.ID })
		with := make(map[int64]bool, len(day.Meetings))
		for _, m := range day.Meetings {
			with[m.FabricanteID] = true
		}
		day.Fabricantes = filterUsers(day.Fabricantes, func(u domain.User) bool { return with[u.ID] })
	}
	return day
}

func filterMeetings(in []Meeting, keep func(Meeting) bool) []Meeting {
	out := make([]Meeting, 0, len(in))
	for _, m := range in {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func filterUsers(in []domain.User, keep func(domain.User) bool) []domain.User {
	out := make([]domain.User, 0, len(in))
	for _, u := range in {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out
}

// SlotSource informa a duração de slot do evento ativo.
type SlotSource interface {
	SlotDuration(ctx context.Context) (int, error)
}

// Service monta a grade a partir dos usuários e do evento ativo.
type Service struct {
	users     store.Users
	slots     SlotSource
	generator *Generator
	now       func() time.Time
}

func NewService(users store.Users, slots SlotSource, generator *Generator) *Service {
	return &Service{users: users, slots: slots, generator: generator, now: time.Now}
}

// Daily gera a grade de date (YYYY-MM-DD, vazio = hoje) visível ao usuário.
func (s *Service) Daily(ctx context.Context, viewer domain.User, date string) (Day, error) {
	day, err := s.generator.ParseDate(date, s.now())
	if err != nil {
		return Day{}, err
	}

	slotMinutes, err := s.slots.SlotDuration(ctx)
	if err != nil {
		return Day{}, err
	}

	fabricantes, err := s.activeUsers(ctx, domain.UserTypeFabricante)
	if err != nil {
		return Day{}, err
	}
	revendedores, err := s.activeUsers(ctx, domain.UserTypeRevendedor)
	if err != nil {
		return Day{}, err
	}

	return Visible(s.generator.Generate(day, slotMinutes, fabricantes, revendedores), viewer), nil
}

func (s *Service) activeUsers(ctx context.Context, userType string) ([]domain.User, error) {
	users, err := s.users.ListUsersByType(ctx, userType)
	if err != nil {
		return nil, err
	}
	return filterUsers(users, func(u domain.User) bool { return u.IsActive }), nil
}
