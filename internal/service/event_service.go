package service

import (
	"context"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/store"
)

// EventService administra eventos.
type EventService struct {
	store store.Store
}

func NewEventService(st store.Store) *EventService {
	return &EventService{store: st}
}

// List devolve eventos ativos; com all=true (apenas admin) devolve todos.
func (s *EventService) List(ctx context.Context, actor domain.User, all bool) ([]domain.Event, error) {
	if all {
		if err := RequireAdmin(actor); err != nil {
			return nil, err
		}
		return s.store.ListEvents(ctx)
	}
	return s.store.ListActiveEvents(ctx)
}

func (s *EventService) Get(ctx context.Context, id int64) (domain.Event, error) {
	return s.store.GetEvent(ctx, id)
}

func (s *EventService) Create(ctx context.Context, actor domain.User, in domain.NewEvent) (domain.Event, error) {
	if err := RequireAdmin(actor); err != nil {
		return domain.Event{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.Event{}, err
	}
	return s.store.CreateEvent(ctx, in.Event())
}

func (s *EventService) Meetings(ctx context.Context, actor domain.User, eventID int64) ([]domain.Meeting, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.ListEventMeetings(ctx, eventID)
}

// SlotDuration devolve a duração de slot do primeiro evento ativo.
func (s *EventService) SlotDuration(ctx context.Context) (int, error) {
	events, err := s.store.ListActiveEvents(ctx)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 || events[0].SlotDuration <= 0 {
		return domain.DefaultSlotDuration, nil
	}
	return events[0].SlotDuration, nil
}
