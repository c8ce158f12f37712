// Package fixtures popula um store com os dados de demonstração do evento.
package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agiseventos/agenda/internal/auth"
	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/store"
)

// Password é a senha de todos os usuários de demonstração.
const Password = "123456"

type fixtureUser struct {
	email, name, company, phone, userType, description string
}

var users = []fixtureUser{
	{"joao@industriaabc.com", "João Silva", "Indústria ABC", "(11) 9999-9999", domain.UserTypeFabricante, "Fabricação de componentes eletrônicos para indústria automotiva"},
	{"ana@distribuidoranorte.com", "Ana Beatriz Santos", "Distribuidora Norte Ltda.", "(11) 8888-8888", domain.UserTypeRevendedor, "Distribuição de produtos eletrônicos para o nordeste"},
	{"carlos@varejoSul.com", "Carlos Santos", "Rede Varejo Sul", "(11) 7777-7777", domain.UserTypeRevendedor, "Rede de lojas de varejo no sul do país"},
	{"marina@atacadocentro.com", "Marina Rodrigues", "Atacado Centro", "(11) 6666-6666", domain.UserTypeRevendedor, "Atacado de produtos diversos para o centro-oeste"},
	{"admin@agis.com", "Administrador", "Agis Eventos", "(11) 5555-5555", domain.UserTypeAdmin, "Administração da plataforma"},
	{"paulo@metalurgicapaulista.com", "Paulo Mendes", "Metalúrgica Paulista", "(11) 4444-4444", domain.UserTypeFabricante, "Peças metálicas estampadas sob encomenda"},
	{"fernanda@textillima.com", "Fernanda Lima", "Têxtil Lima", "(11) 3333-3333", domain.UserTypeFabricante, "Tecidos técnicos para uniformes e EPIs"},
}

type fixtureMeeting struct {
	revendedorID int64
	offset       time.Duration
	location     string
	status       string
	notes        string
}

var meetings = []fixtureMeeting{
	{2, 2 * time.Hour, "Mesa 15", domain.MeetingConfirmed, "Discussão sobre novos produtos"},
	{3, 3 * time.Hour, "Mesa 12", domain.MeetingPending, "Negociação de preços"},
	{4, 24 * time.Hour, "Mesa 8", domain.MeetingConfirmed, "Apresentação de linha de produtos"},
}

var notifications = []domain.NewNotification{
	{UserID: 1, Title: "Conflito de horário detectado", Message: "Existe um conflito entre suas reuniões agendadas", Type: domain.NotificationWarning},
	{UserID: 1, Title: "Reunião confirmada", Message: "Sua reunião com Ana Beatriz foi confirmada", Type: domain.NotificationSuccess},
	{UserID: 1, Title: "Lembrete: Reunião em 30 min", Message: "Você tem uma reunião em 30 minutos", Type: domain.NotificationInfo},
}

// Seed insere os dados de demonstração. Horários são relativos a now.
// Um store que já possui usuários não é alterado.
func Seed(ctx context.Context, st store.Store, now time.Time) error {
	existing, err := st.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info().Int("users", len(existing)).Msg("fixtures ignoradas: store já populado")
		return nil
	}

	hash, err := auth.Hash(Password)
	if err != nil {
		return fmt.Errorf("hash senha: %w", err)
	}

	for _, fu := range users {
		company, phone, description := fu.company, fu.phone, fu.description
		if _, err := st.CreateUser(ctx, domain.User{
			Email:        fu.email,
			PasswordHash: hash,
			Name:         fu.name,
			Company:      &company,
			Phone:        &phone,
			UserType:     fu.userType,
			Description:  &description,
			IsActive:     true,
			CreatedAt:    now,
		}); err != nil {
			return fmt.Errorf("usuário %s: %w", fu.email, err)
		}
	}

	eventDescription := "Evento de networking B2B para fabricantes e revendedores"
	eventLocation := "Centro de Convenções São Paulo"
	event, err := st.CreateEvent(ctx, domain.Event{
		Name:         "Feira de Negócios",
		Description:  &eventDescription,
		StartDate:    now,
		EndDate:      now.Add(7 * 24 * time.Hour),
		Location:     &eventLocation,
		SlotDuration: domain.DefaultSlotDuration,
		IsActive:     true,
		CreatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("evento: %w", err)
	}

	for _, fm := range meetings {
		eventID, location, notes := event.ID, fm.location, fm.notes
		if _, err := st.CreateMeeting(ctx, domain.Meeting{
			EventID:      &eventID,
			FabricanteID: 1,
			RevendedorID: fm.revendedorID,
			ScheduledAt:  now.Add(fm.offset),
			Duration:     domain.DefaultMeetingDuration,
			Location:     &location,
			Status:       fm.status,
			Notes:        &notes,
			CreatedAt:    now,
		}); err != nil {
			return fmt.Errorf("reunião: %w", err)
		}
	}

	eventID := event.ID
	message := "Gostaria de agendar uma reunião para discutir oportunidades de parceria"
	if _, err := st.CreateMeetingRequest(ctx, domain.MeetingRequest{
		EventID:     &eventID,
		RequesterID: 4,
		TargetID:    1,
		RequestedAt: now.Add(24 * time.Hour),
		Message:     &message,
		Status:      domain.RequestPending,
		CreatedAt:   now,
	}); err != nil {
		return fmt.Errorf("solicitação: %w", err)
	}

	for _, fn := range notifications {
		n := fn.Notification()
		n.CreatedAt = now
		if _, err := st.CreateNotification(ctx, n); err != nil {
			return fmt.Errorf("notificação: %w", err)
		}
	}

	log.Info().Int("users", len(users)).Int("meetings", len(meetings)).Msg("fixtures carregadas")
	return nil
}
