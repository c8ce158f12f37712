package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/store"
)

// RequestService trata solicitações de reunião entre empresas.
type RequestService struct {
	store         store.Store
	notifications *NotificationService
}

func NewRequestService(st store.Store, notifications *NotificationService) *RequestService {
	return &RequestService{store: st, notifications: notifications}
}

// List devolve solicitações enviadas ou recebidas pelo usuário.
func (s *RequestService) List(ctx context.Context, actor domain.User) ([]domain.MeetingRequest, error) {
	return s.store.ListUserMeetingRequests(ctx, actor.ID)
}

// Pending devolve solicitações aguardando resposta do usuário.
func (s *RequestService) Pending(ctx context.Context, actor domain.User) ([]domain.MeetingRequest, error) {
	return s.store.ListPendingRequests(ctx, actor.ID)
}

// Create registra solicitação com o ator como solicitante e avisa o destinatário.
func (s *RequestService) Create(ctx context.Context, actor domain.User, in domain.NewMeetingRequest) (domain.MeetingRequest, error) {
	if err := in.Validate(actor.ID); err != nil {
		return domain.MeetingRequest{}, err
	}
	if _, err := s.store.GetUser(ctx, in.TargetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.MeetingRequest{}, domain.Invalid("targetId", "Destinatário não encontrado")
		}
		return domain.MeetingRequest{}, err
	}
	if in.EventID != nil {
		if _, err := s.store.GetEvent(ctx, *in.EventID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.MeetingRequest{}, domain.Invalid("eventId", "Evento não encontrado")
			}
			return domain.MeetingRequest{}, err
		}
	}

	req, err := s.store.CreateMeetingRequest(ctx, in.MeetingRequest(actor.ID))
	if err != nil {
		return domain.MeetingRequest{}, err
	}

	s.notifications.notifyQuietly(ctx, req.TargetID, "Nova solicitação de reunião",
		fmt.Sprintf("%s solicitou uma reunião", displayName(actor)), domain.NotificationInfo)
	return req, nil
}

// Update responde ou edita a solicitação.
// Status e resposta cabem ao destinatário; horário e mensagem ao solicitante; admin pode tudo.
func (s *RequestService) Update(ctx context.Context, actor domain.User, id int64, patch domain.MeetingRequestPatch) (domain.MeetingRequest, error) {
	if err := patch.Validate(); err != nil {
		return domain.MeetingRequest{}, err
	}

	current, err := s.store.GetMeetingRequest(ctx, id)
	if err != nil {
		return domain.MeetingRequest{}, err
	}

	isAdmin := actor.IsAdmin()
	isTarget := actor.ID == current.TargetID
	isRequester := actor.ID == current.RequesterID
	if !isAdmin && !isTarget && !isRequester {
		return domain.MeetingRequest{}, ErrForbidden
	}

	statusChange := patch.Status != nil && *patch.Status != current.Status
	if (statusChange || patch.ResponseMessage != nil) && !isAdmin && !isTarget {
		return domain.MeetingRequest{}, ErrForbidden
	}
	if (patch.Message != nil || patch.RequestedAt != nil) && !isAdmin && !isRequester {
		return domain.MeetingRequest{}, ErrForbidden
	}
	if statusChange && !domain.CanTransitionRequest(current.Status, *patch.Status) {
		return domain.MeetingRequest{}, domain.Invalid("status", "Solicitação já respondida")
	}

	updated, err := s.store.UpdateMeetingRequest(ctx, id, patch)
	if err != nil {
		return domain.MeetingRequest{}, err
	}

	if statusChange && updated.RequesterID != actor.ID {
		title, kind := "Solicitação aprovada", domain.NotificationSuccess
		if updated.Status == domain.RequestRejected {
			title, kind = "Solicitação recusada", domain.NotificationWarning
		}
		s.notifications.notifyQuietly(ctx, updated.RequesterID, title,
			fmt.Sprintf("%s respondeu sua solicitação de reunião", displayName(actor)), kind)
	}
	return updated, nil
}

func displayName(u domain.User) string {
	if u.Company != nil && *u.Company != "" {
		return fmt.Sprintf("%s (%s)", u.Name, *u.Company)
	}
	return u.Name
}
