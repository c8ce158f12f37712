// Package store define o contrato de persistência compartilhado pelos drivers
// memory e postgres.
package store

import (
	"context"
	"errors"

	"github.com/agiseventos/agenda/internal/domain"
)

var (
	// ErrNotFound é retornado quando nenhum registro é encontrado.
	ErrNotFound = errors.New("registro não encontrado")
	// ErrDuplicateEmail indica email já utilizado por outro usuário.
	ErrDuplicateEmail = errors.New("email já cadastrado")
)

// Store agrupa as operações por entidade.
type Store interface {
	Users
	Events
	Meetings
	MeetingRequests
	Notifications

	Ping(ctx context.Context) error
}

type Users interface {
	GetUser(ctx context.Context, id int64) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	UpdateUser(ctx context.Context, id int64, changes domain.UserChanges) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListUsersByType(ctx context.Context, userType string) ([]domain.User, error)
}

type Events interface {
	GetEvent(ctx context.Context, id int64) (domain.Event, error)
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	ListActiveEvents(ctx context.Context) ([]domain.Event, error)
}

type Meetings interface {
	GetMeeting(ctx context.Context, id int64) (domain.Meeting, error)
	CreateMeeting(ctx context.Context, meeting domain.Meeting) (domain.Meeting, error)
	UpdateMeeting(ctx context.Context, id int64, patch domain.MeetingPatch) (domain.Meeting, error)
	// ListUserMeetings devolve reuniões onde o usuário é fabricante ou revendedor.
	ListUserMeetings(ctx context.Context, userID int64) ([]domain.Meeting, error)
	ListEventMeetings(ctx context.Context, eventID int64) ([]domain.Meeting, error)
	ListMeetings(ctx context.Context) ([]domain.Meeting, error)
}

type MeetingRequests interface {
	GetMeetingRequest(ctx context.Context, id int64) (domain.MeetingRequest, error)
	CreateMeetingRequest(ctx context.Context, req domain.MeetingRequest) (domain.MeetingRequest, error)
	UpdateMeetingRequest(ctx context.Context, id int64, patch domain.MeetingRequestPatch) (domain.MeetingRequest, error)
	// ListUserMeetingRequests devolve solicitações enviadas ou recebidas.
	ListUserMeetingRequests(ctx context.Context, userID int64) ([]domain.MeetingRequest, error)
	// ListPendingRequests devolve solicitações pendentes recebidas pelo usuário.
	ListPendingRequests(ctx context.Context, userID int64) ([]domain.MeetingRequest, error)
}

type Notifications interface {
	GetNotification(ctx context.Context, id int64) (domain.Notification, error)
	CreateNotification(ctx context.Context, n domain.Notification) (domain.Notification, error)
	ListUserNotifications(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) (domain.Notification, error)
}
