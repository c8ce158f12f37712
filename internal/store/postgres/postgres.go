// Package postgres implementa store.Store sobre PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agiseventos/agenda/internal/db"
	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/store"
)

const dbTimeout = 3 * time.Second

const uniqueViolation = "23505"

// Store persiste as entidades em tabelas criadas pelas migrações goose.
type Store struct {
	db *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return s.db.Ping(ctx)
}

const userColumns = `id, email, password_hash, name, company, phone, user_type, profile_image, description, is_active, created_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Company, &u.Phone, &u.UserType, &u.ProfileImage, &u.Description, &u.IsActive, &u.CreatedAt)
	return u, mapErr(err)
}

func (s *Store) GetUser(ctx context.Context, id int64) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (s *Store) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanUser(s.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, company, phone, user_type, profile_image, description, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, now()))
		RETURNING `+userColumns,
		u.Email, u.PasswordHash, u.Name, u.Company, u.Phone, u.UserType, u.ProfileImage, u.Description, u.IsActive, nullTime(u.CreatedAt)))
}

func (s *Store) UpdateUser(ctx context.Context, id int64, c domain.UserChanges) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanUser(s.db.QueryRow(ctx, `
		UPDATE users SET
			email = COALESCE($2, email),
			password_hash = COALESCE($3, password_hash),
			name = COALESCE($4, name),
			company = COALESCE($5, company),
			phone = COALESCE($6, phone),
			user_type = COALESCE($7, user_type),
			profile_image = COALESCE($8, profile_image),
			description = COALESCE($9, description),
			is_active = COALESCE($10, is_active)
		WHERE id = $1
		RETURNING `+userColumns,
		id, c.Email, c.PasswordHash, c.Name, c.Company, c.Phone, c.UserType, c.ProfileImage, c.Description, c.IsActive))
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.queryUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

func (s *Store) ListUsersByType(ctx context.Context, userType string) ([]domain.User, error) {
	return s.queryUsers(ctx, `SELECT `+userColumns+` FROM users WHERE user_type = $1 ORDER BY id`, userType)
}

func (s *Store) queryUsers(ctx context.Context, sql string, args ...any) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

const eventColumns = `id, name, description, start_date, end_date, location, slot_duration, is_active, created_at`

func scanEvent(row pgx.Row) (domain.Event, error) {
	var ev domain.Event
	err := row.Scan(&ev.ID, &ev.Name, &ev.Description, &ev.StartDate, &ev.EndDate, &ev.Location, &ev.SlotDuration, &ev.IsActive, &ev.CreatedAt)
	return ev, mapErr(err)
}

func (s *Store) GetEvent(ctx context.Context, id int64) (domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanEvent(s.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

func (s *Store) CreateEvent(ctx context.Context, ev domain.Event) (domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanEvent(s.db.QueryRow(ctx, `
		INSERT INTO events (name, description, start_date, end_date, location, slot_duration, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
		RETURNING `+eventColumns,
		ev.Name, ev.Description, ev.StartDate, ev.EndDate, ev.Location, ev.SlotDuration, ev.IsActive, nullTime(ev.CreatedAt)))
}

func (s *Store) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.queryEvents(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id`)
}

func (s *Store) ListActiveEvents(ctx context.Context) ([]domain.Event, error) {
	return s.queryEvents(ctx, `SELECT `+eventColumns+` FROM events WHERE is_active ORDER BY id`)
}

func (s *Store) queryEvents(ctx context.Context, sql string, args ...any) ([]domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

const meetingColumns = `id, event_id, fabricante_id, revendedor_id, scheduled_at, duration, location, status, notes, result, created_at, updated_at`

func scanMeeting(row pgx.Row) (domain.Meeting, error) {
	var m domain.Meeting
	err := row.Scan(&m.ID, &m.EventID, &m.FabricanteID, &m.RevendedorID, &m.ScheduledAt, &m.Duration, &m.Location, &m.Status, &m.Notes, &m.Result, &m.CreatedAt, &m.UpdatedAt)
	return m, mapErr(err)
}

func (s *Store) GetMeeting(ctx context.Context, id int64) (domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanMeeting(s.db.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id))
}

func (s *Store) CreateMeeting(ctx context.Context, m domain.Meeting) (domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanMeeting(s.db.QueryRow(ctx, `
		INSERT INTO meetings (event_id, fabricante_id, revendedor_id, scheduled_at, duration, location, status, notes, result, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, now()), now())
		RETURNING `+meetingColumns,
		m.EventID, m.FabricanteID, m.RevendedorID, m.ScheduledAt, m.Duration, m.Location, m.Status, m.Notes, m.Result, nullTime(m.CreatedAt)))
}

func (s *Store) UpdateMeeting(ctx context.Context, id int64, p domain.MeetingPatch) (domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanMeeting(s.db.QueryRow(ctx, `
		UPDATE meetings SET
			event_id = COALESCE($2, event_id),
			fabricante_id = COALESCE($3, fabricante_id),
			revendedor_id = COALESCE($4, revendedor_id),
			scheduled_at = COALESCE($5, scheduled_at),
			duration = COALESCE($6, duration),
			location = COALESCE($7, location),
			status = COALESCE($8, status),
			notes = COALESCE($9, notes),
			result = COALESCE($10, result),
			updated_at = now()
		WHERE id = $1
		RETURNING `+meetingColumns,
		id, p.EventID, p.FabricanteID, p.RevendedorID, p.ScheduledAt, p.Duration, p.Location, p.Status, p.Notes, p.Result))
}

func (s *Store) ListUserMeetings(ctx context.Context, userID int64) ([]domain.Meeting, error) {
	return s.queryMeetings(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE fabricante_id = $1 OR revendedor_id = $1 ORDER BY id`, userID)
}

func (s *Store) ListEventMeetings(ctx context.Context, eventID int64) ([]domain.Meeting, error) {
	return s.queryMeetings(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE event_id = $1 ORDER BY id`, eventID)
}

func (s *Store) ListMeetings(ctx context.Context) ([]domain.Meeting, error) {
	return s.queryMeetings(ctx, `SELECT `+meetingColumns+` FROM meetings ORDER BY id`)
}

func (s *Store) queryMeetings(ctx context.Context, sql string, args ...any) ([]domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meetings := make([]domain.Meeting, 0)
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

const requestColumns = `id, event_id, requester_id, target_id, requested_at, message, status, response_message, created_at, updated_at`

func scanRequest(row pgx.Row) (domain.MeetingRequest, error) {
	var r domain.MeetingRequest
	err := row.Scan(&r.ID, &r.EventID, &r.RequesterID, &r.TargetID, &r.RequestedAt, &r.Message, &r.Status, &r.ResponseMessage, &r.CreatedAt, &r.UpdatedAt)
	return r, mapErr(err)
}

func (s *Store) GetMeetingRequest(ctx context.Context, id int64) (domain.MeetingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanRequest(s.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM meeting_requests WHERE id = $1`, id))
}

func (s *Store) CreateMeetingRequest(ctx context.Context, r domain.MeetingRequest) (domain.MeetingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	status := r.Status
	if status == "" {
		status = domain.RequestPending
	}
	return scanRequest(s.db.QueryRow(ctx, `
		INSERT INTO meeting_requests (event_id, requester_id, target_id, requested_at, message, status, response_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()), now())
		RETURNING `+requestColumns,
		r.EventID, r.RequesterID, r.TargetID, r.RequestedAt, r.Message, status, r.ResponseMessage, nullTime(r.CreatedAt)))
}

func (s *Store) UpdateMeetingRequest(ctx context.Context, id int64, p domain.MeetingRequestPatch) (domain.MeetingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanRequest(s.db.QueryRow(ctx, `
		UPDATE meeting_requests SET
			requested_at = COALESCE($2, requested_at),
			message = COALESCE($3, message),
			status = COALESCE($4, status),
			response_message = COALESCE($5, response_message),
			updated_at = now()
		WHERE id = $1
		RETURNING `+requestColumns,
		id, p.RequestedAt, p.Message, p.Status, p.ResponseMessage))
}

func (s *Store) ListUserMeetingRequests(ctx context.Context, userID int64) ([]domain.MeetingRequest, error) {
	return s.queryRequests(ctx, `SELECT `+requestColumns+` FROM meeting_requests WHERE requester_id = $1 OR target_id = $1 ORDER BY id`, userID)
}

func (s *Store) ListPendingRequests(ctx context.Context, userID int64) ([]domain.MeetingRequest, error) {
	return s.queryRequests(ctx, `SELECT `+requestColumns+` FROM meeting_requests WHERE target_id = $1 AND status = $2 ORDER BY id`, userID, domain.RequestPending)
}

func (s *Store) queryRequests(ctx context.Context, sql string, args ...any) ([]domain.MeetingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]domain.MeetingRequest, 0)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

const notificationColumns = `id, user_id, title, message, type, is_read, created_at`

func scanNotification(row pgx.Row) (domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt)
	return n, mapErr(err)
}

func (s *Store) GetNotification(ctx context.Context, id int64) (domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanNotification(s.db.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
}

func (s *Store) CreateNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanNotification(s.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, title, message, type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
		RETURNING `+notificationColumns,
		n.UserID, n.Title, n.Message, n.Type, n.IsRead, nullTime(n.CreatedAt)))
}

func (s *Store) ListUserNotifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) (domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return scanNotification(s.db.QueryRow(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 RETURNING `+notificationColumns, id))
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrDuplicateEmail
	}
	return err
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Truncate apaga todos os dados e reinicia as sequências de id.
func (s *Store) Truncate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	return db.WithTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `TRUNCATE notifications, meeting_requests, meetings, events, users RESTART IDENTITY CASCADE`)
		return err
	})
}
