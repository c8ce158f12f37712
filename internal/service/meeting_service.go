package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/store"
)

// MeetingService cria e atualiza reuniões.
type MeetingService struct {
	store         store.Store
	notifications *NotificationService
}

func NewMeetingService(st store.Store, notifications *NotificationService) *MeetingService {
	return &MeetingService{store: st, notifications: notifications}
}

// ListForUser devolve as reuniões em que o usuário participa.
func (s *MeetingService) ListForUser(ctx context.Context, actor domain.User) ([]domain.Meeting, error) {
	return s.store.ListUserMeetings(ctx, actor.ID)
}

func (s *MeetingService) ListAll(ctx context.Context, actor domain.User) ([]domain.Meeting, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.ListMeetings(ctx)
}

// ListVisible devolve todas as reuniões para admin e as próprias para os demais.
func (s *MeetingService) ListVisible(ctx context.Context, actor domain.User) ([]domain.Meeting, error) {
	if actor.IsAdmin() {
		return s.store.ListMeetings(ctx)
	}
	return s.store.ListUserMeetings(ctx, actor.ID)
}

func (s *MeetingService) Get(ctx context.Context, actor domain.User, id int64) (domain.Meeting, error) {
	m, err := s.store.GetMeeting(ctx, id)
	if err != nil {
		return domain.Meeting{}, err
	}
	if err := RequireParticipantOrAdmin(actor, m); err != nil {
		return domain.Meeting{}, err
	}
	return m, nil
}

func (s *MeetingService) Create(ctx context.Context, actor domain.User, in domain.NewMeeting) (domain.Meeting, error) {
	if err := in.Validate(); err != nil {
		return domain.Meeting{}, err
	}
	candidate := in.Meeting()
	if err := RequireParticipantOrAdmin(actor, candidate); err != nil {
		return domain.Meeting{}, err
	}
	if err := s.checkReferences(ctx, candidate); err != nil {
		return domain.Meeting{}, err
	}

	m, err := s.store.CreateMeeting(ctx, candidate)
	if err != nil {
		return domain.Meeting{}, err
	}

	for _, userID := range counterparts(actor, m) {
		s.notifications.notifyQuietly(ctx, userID, "Nova reunião agendada",
			fmt.Sprintf("%s agendou uma reunião para %s", actor.Name, m.ScheduledAt.Format("02/01 15:04")),
			domain.NotificationInfo)
	}
	return m, nil
}

// Update aplica alteração parcial respeitando o ciclo de vida do status.
func (s *MeetingService) Update(ctx context.Context, actor domain.User, id int64, patch domain.MeetingPatch) (domain.Meeting, error) {
	if err := patch.Validate(); err != nil {
		return domain.Meeting{}, err
	}

	current, err := s.store.GetMeeting(ctx, id)
	if err != nil {
		return domain.Meeting{}, err
	}
	if err := RequireParticipantOrAdmin(actor, current); err != nil {
		return domain.Meeting{}, err
	}

	if patch.Status != nil && !domain.CanTransitionMeeting(current.Status, *patch.Status) {
		return domain.Meeting{}, domain.Invalid("status", "Transição de status inválida")
	}

	next := patch.Apply(current)
	if next.FabricanteID == next.RevendedorID {
		return domain.Meeting{}, domain.Invalid("revendedorId", "Participantes devem ser distintos")
	}
	if err := RequireParticipantOrAdmin(actor, next); err != nil {
		return domain.Meeting{}, err
	}
	if err := s.checkReferences(ctx, next); err != nil {
		return domain.Meeting{}, err
	}

	updated, err := s.store.UpdateMeeting(ctx, id, patch)
	if err != nil {
		return domain.Meeting{}, err
	}

	if updated.Status != current.Status {
		title, kind := statusNotice(updated.Status)
		for _, userID := range counterparts(actor, updated) {
			s.notifications.notifyQuietly(ctx, userID, title,
				fmt.Sprintf("Reunião de %s agora está %s", updated.ScheduledAt.Format("02/01 15:04"), statusLabel(updated.Status)),
				kind)
		}
	}
	return updated, nil
}

// checkReferences exige fabricante e revendedor existentes, cada um no seu papel.
func (s *MeetingService) checkReferences(ctx context.Context, m domain.Meeting) error {
	for _, ref := range []struct {
		id       int64
		field    string
		userType string
		message  string
	}{
		{m.FabricanteID, "fabricanteId", domain.UserTypeFabricante, "Participante não é fabricante"},
		{m.RevendedorID, "revendedorId", domain.UserTypeRevendedor, "Participante não é revendedor"},
	} {
		u, err := s.store.GetUser(ctx, ref.id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Invalid(ref.field, "Participante não encontrado")
			}
			return err
		}
		if u.UserType != ref.userType {
			return domain.Invalid(ref.field, ref.message)
		}
	}
	if m.EventID != nil {
		if _, err := s.store.GetEvent(ctx, *m.EventID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Invalid("eventId", "Evento não encontrado")
			}
			return err
		}
	}
	return nil
}

// counterparts lista participantes que não são o próprio ator.
func counterparts(actor domain.User, m domain.Meeting) []int64 {
	var ids []int64
	for _, id := range []int64{m.FabricanteID, m.RevendedorID} {
		if id != actor.ID {
			ids = append(ids, id)
		}
	}
	return ids
}

func statusNotice(status string) (string, string) {
	switch status {
	case domain.MeetingConfirmed:
		return "Reunião confirmada", domain.NotificationSuccess
	case domain.MeetingCancelled:
		return "Reunião cancelada", domain.NotificationWarning
	case domain.MeetingCompleted:
		return "Reunião concluída", domain.NotificationInfo
	default:
		return "Reunião atualizada", domain.NotificationInfo
	}
}

func statusLabel(status string) string {
	switch status {
	case domain.MeetingConfirmed:
		return "confirmada"
	case domain.MeetingCancelled:
		return "cancelada"
	case domain.MeetingCompleted:
		return "concluída"
	default:
		return "pendente"
	}
}
