// Package memory implementa store.Store com mapas em memória.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/store"
)

// Store guarda as entidades em mapas indexados por id.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users         map[int64]domain.User
	events        map[int64]domain.Event
	meetings      map[int64]domain.Meeting
	requests      map[int64]domain.MeetingRequest
	notifications map[int64]domain.Notification

	nextUser         int64
	nextEvent        int64
	nextMeeting      int64
	nextRequest      int64
	nextNotification int64
}

var _ store.Store = (*Store)(nil)

// New cria store vazio.
func New() *Store {
	s := &Store{now: func() time.Time { return time.Now().UTC() }}
	s.reset()
	return s
}

// Reset apaga todos os registros e reinicia os ids.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Store) reset() {
	s.users = make(map[int64]domain.User)
	s.events = make(map[int64]domain.Event)
	s.meetings = make(map[int64]domain.Meeting)
	s.requests = make(map[int64]domain.MeetingRequest)
	s.notifications = make(map[int64]domain.Notification)
	s.nextUser, s.nextEvent, s.nextMeeting, s.nextRequest, s.nextNotification = 1, 1, 1, 1, 1
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) GetUser(ctx context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.findByEmail(email); ok {
		return u, nil
	}
	return domain.User{}, store.ErrNotFound
}

func (s *Store) findByEmail(email string) (domain.User, bool) {
	for id := int64(1); id < s.nextUser; id++ {
		if u, ok := s.users[id]; ok && strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return domain.User{}, false
}

func (s *Store) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.findByEmail(user.Email); exists {
		return domain.User{}, store.ErrDuplicateEmail
	}
	user.ID = s.nextUser
	s.nextUser++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, changes domain.UserChanges) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	if changes.Email != nil {
		if other, exists := s.findByEmail(*changes.Email); exists && other.ID != id {
			return domain.User{}, store.ErrDuplicateEmail
		}
	}
	u = changes.Apply(u)
	s.users[id] = u
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.filterUsers(func(domain.User) bool { return true }), nil
}

func (s *Store) ListUsersByType(ctx context.Context, userType string) ([]domain.User, error) {
	return s.filterUsers(func(u domain.User) bool { return u.UserType == userType }), nil
}

func (s *Store) filterUsers(keep func(domain.User) bool) []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for id := int64(1); id < s.nextUser; id++ {
		if u, ok := s.users[id]; ok && keep(u) {
			out = append(out, u)
		}
	}
	return out
}

func (s *Store) GetEvent(ctx context.Context, id int64) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[id]
	if !ok {
		return domain.Event{}, store.ErrNotFound
	}
	return ev, nil
}

func (s *Store) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.nextEvent
	s.nextEvent++
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now()
	}
	s.events[event.ID] = event
	return event, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.filterEvents(func(domain.Event) bool { return true }), nil
}

func (s *Store) ListActiveEvents(ctx context.Context) ([]domain.Event, error) {
	return s.filterEvents(func(ev domain.Event) bool { return ev.IsActive }), nil
}

func (s *Store) filterEvents(keep func(domain.Event) bool) []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, 0, len(s.events))
	for id := int64(1); id < s.nextEvent; id++ {
		if ev, ok := s.events[id]; ok && keep(ev) {
			out = append(out, ev)
		}
	}
	return out
}

func (s *Store) GetMeeting(ctx context.Context, id int64) (domain.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetings[id]
	if !ok {
		return domain.Meeting{}, store.ErrNotFound
	}
	return m, nil
}

func (s *Store) CreateMeeting(ctx context.Context, meeting domain.Meeting) (domain.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meeting.ID = s.nextMeeting
	s.nextMeeting++
	now := s.now()
	if meeting.CreatedAt.IsZero() {
		meeting.CreatedAt = now
	}
	meeting.UpdatedAt = now
	s.meetings[meeting.ID] = meeting
	return meeting, nil
}

func (s *Store) UpdateMeeting(ctx context.Context, id int64, patch domain.MeetingPatch) (domain.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meetings[id]
	if !ok {
		return domain.Meeting{}, store.ErrNotFound
	}
	m = patch.Apply(m)
	m.UpdatedAt = s.now()
	s.meetings[id] = m
	return m, nil
}

func (s *Store) ListUserMeetings(ctx context.Context, userID int64) ([]domain.Meeting, error) {
	return s.filterMeetings(func(m domain.Meeting) bool { return m.HasParticipant(userID) }), nil
}

func (s *Store) ListEventMeetings(ctx context.Context, eventID int64) ([]domain.Meeting, error) {
	return s.filterMeetings(func(m domain.Meeting) bool {
		return m.EventID != nil && *m.EventID == eventID
	}), nil
}

func (s *Store) ListMeetings(ctx context.Context) ([]domain.Meeting, error) {
	return s.filterMeetings(func(domain.Meeting) bool { return true }), nil
}

func (s *Store) filterMeetings(keep func(domain.Meeting) bool) []domain.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Meeting, 0, len(s.meetings))
	for id := int64(1); id < s.nextMeeting; id++ {
		if m, ok := s.meetings[id]; ok && keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) GetMeetingRequest(ctx context.Context, id int64) (domain.MeetingRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[id]
	if !ok {
		return domain.MeetingRequest{}, store.ErrNotFound
	}
	return r, nil
}

func (s *Store) CreateMeetingRequest(ctx context.Context, req domain.MeetingRequest) (domain.MeetingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req.ID = s.nextRequest
	s.nextRequest++
	if req.Status == "" {
		req.Status = domain.RequestPending
	}
	now := s.now()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now
	s.requests[req.ID] = req
	return req, nil
}

func (s *Store) UpdateMeetingRequest(ctx context.Context, id int64, patch domain.MeetingRequestPatch) (domain.MeetingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return domain.MeetingRequest{}, store.ErrNotFound
	}
	r = patch.Apply(r)
	r.UpdatedAt = s.now()
	s.requests[id] = r
	return r, nil
}

func (s *Store) ListUserMeetingRequests(ctx context.Context, userID int64) ([]domain.MeetingRequest, error) {
	return s.filterRequests(func(r domain.MeetingRequest) bool {
		return r.RequesterID == userID || r.TargetID == userID
	}), nil
}

func (s *Store) ListPendingRequests(ctx context.Context, userID int64) ([]domain.MeetingRequest, error) {
	return s.filterRequests(func(r domain.MeetingRequest) bool {
		return r.TargetID == userID && r.Status == domain.RequestPending
	}), nil
}

func (s *Store) filterRequests(keep func(domain.MeetingRequest) bool) []domain.MeetingRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MeetingRequest, 0, len(s.requests))
	for id := int64(1); id < s.nextRequest; id++ {
		if r, ok := s.requests[id]; ok && keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) GetNotification(ctx context.Context, id int64) (domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notifications[id]
	if !ok {
		return domain.Notification{}, store.ErrNotFound
	}
	return n, nil
}

func (s *Store) CreateNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.nextNotification
	s.nextNotification++
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	s.notifications[n.ID] = n
	return n, nil
}

func (s *Store) ListUserNotifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Notification, 0)
	for id := int64(1); id < s.nextNotification; id++ {
		if n, ok := s.notifications[id]; ok && n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) (domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return domain.Notification{}, store.ErrNotFound
	}
	n.IsRead = true
	s.notifications[id] = n
	return n, nil
}
