package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/notify"
	"github.com/agiseventos/agenda/internal/store"
)

// NotificationService cria e entrega notificações.
type NotificationService struct {
	store     store.Store
	forwarder notify.Forwarder
	logger    zerolog.Logger
}

func NewNotificationService(st store.Store, forwarder notify.Forwarder) *NotificationService {
	if forwarder == nil {
		forwarder = notify.Nop{}
	}
	return &NotificationService{
		store:     st,
		forwarder: forwarder,
		logger:    log.With().Str("component", "notifications").Logger(),
	}
}

func (s *NotificationService) List(ctx context.Context, actor domain.User) ([]domain.Notification, error) {
	return s.store.ListUserNotifications(ctx, actor.ID)
}

// Create registra notificação para o próprio usuário ou, se admin, para qualquer um.
func (s *NotificationService) Create(ctx context.Context, actor domain.User, in domain.NewNotification) (domain.Notification, error) {
	if err := in.Validate(); err != nil {
		return domain.Notification{}, err
	}
	if err := RequireOwnerOrAdmin(actor, in.UserID); err != nil {
		return domain.Notification{}, err
	}
	return s.Send(ctx, in)
}

// Send registra notificação gerada pelo sistema, sem checagem de permissão.
func (s *NotificationService) Send(ctx context.Context, in domain.NewNotification) (domain.Notification, error) {
	if err := in.Validate(); err != nil {
		return domain.Notification{}, err
	}

	recipient, err := s.store.GetUser(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Notification{}, domain.Invalid("userId", "Usuário não encontrado")
		}
		return domain.Notification{}, err
	}

	n, err := s.store.CreateNotification(ctx, in.Notification())
	if err != nil {
		return domain.Notification{}, err
	}

	if err := s.forwarder.Forward(ctx, recipient, n); err != nil {
		s.logger.Warn().Err(err).Int64("notification_id", n.ID).Msg("falha ao encaminhar notificação")
	}
	return n, nil
}

// MarkRead marca como lida; apenas o destinatário ou admin.
func (s *NotificationService) MarkRead(ctx context.Context, actor domain.User, id int64) (domain.Notification, error) {
	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return domain.Notification{}, err
	}
	if err := RequireOwnerOrAdmin(actor, n.UserID); err != nil {
		return domain.Notification{}, err
	}
	return s.store.MarkNotificationRead(ctx, id)
}

// notifyQuietly envia notificação de sistema registrando falhas sem propagá-las.
func (s *NotificationService) notifyQuietly(ctx context.Context, userID int64, title, message, kind string) {
	if s == nil {
		return
	}
	if _, err := s.Send(ctx, domain.NewNotification{UserID: userID, Title: title, Message: message, Type: kind}); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("falha ao gerar notificação")
	}
}
