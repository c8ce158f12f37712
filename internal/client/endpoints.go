package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/schedule"
)

const (
	pathAuthUser      = "/api/auth/user"
	pathUsers         = "/api/users"
	pathEvents        = "/api/events"
	pathMeetings      = "/api/meetings"
	pathRequests      = "/api/meeting-requests"
	pathNotifications = "/api/notifications"
	pathStats         = "/api/stats"
	pathSchedule      = "/api/schedule"
)

// AuthResult é a resposta de login e cadastro.
type AuthResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Stats espelha os indicadores do painel.
type Stats struct {
	TotalMeetings     int `json:"totalMeetings"`
	ConfirmedMeetings int `json:"confirmedMeetings"`
	CompletedMeetings int `json:"completedMeetings"`
	PendingMeetings   int `json:"pendingMeetings"`
	CancelledMeetings int `json:"cancelledMeetings"`
	AttendanceRate    int `json:"attendanceRate"`
	ConfirmationRate  int `json:"confirmationRate"`
	AverageDuration   int `json:"averageDuration"`
}

// Login autentica e passa a usar o token devolvido.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	if err := c.mutate(ctx, http.MethodPost, "/api/auth/login", domain.Credentials{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

func (c *Client) Register(ctx context.Context, in domain.NewUser) (*AuthResult, error) {
	var res AuthResult
	if err := c.mutate(ctx, http.MethodPost, "/api/auth/register", in, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

// Logout revoga a sessão; o token local é descartado mesmo se a API falhar.
func (c *Client) Logout(ctx context.Context) error {
	err := c.mutate(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.SetToken("")
	return err
}

func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var u domain.User
	err := c.query(ctx, pathAuthUser, &u)
	return u, err
}

// Users lista participantes; userType vazio traz todos.
func (c *Client) Users(ctx context.Context, userType string) ([]domain.User, error) {
	path := pathUsers
	if userType != "" {
		path = pathUsers + "/type/" + url.PathEscape(userType)
	}
	var users []domain.User
	err := c.query(ctx, path, &users)
	return users, err
}

func (c *Client) User(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := c.query(ctx, fmt.Sprintf("%s/%d", pathUsers, id), &u)
	return u, err
}

func (c *Client) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (domain.User, error) {
	var u domain.User
	err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("%s/%d", pathUsers, id), patch, &u, pathUsers, pathAuthUser)
	return u, err
}

// UploadAvatar envia a imagem de perfil como multipart.
func (c *Client) UploadAvatar(ctx context.Context, id int64, filename string, content io.Reader) (domain.User, error) {
	body, contentType, err := multipartFile("file", filename, content)
	if err != nil {
		return domain.User{}, err
	}
	data, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("%s/%d/avatar", pathUsers, id), body, contentType)
	if err != nil {
		return domain.User{}, err
	}
	c.Invalidate(pathUsers, pathAuthUser)
	var u domain.User
	return u, decodeData(data, &u)
}

func (c *Client) Events(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	err := c.query(ctx, pathEvents, &events)
	return events, err
}

func (c *Client) CreateEvent(ctx context.Context, in domain.NewEvent) (domain.Event, error) {
	var ev domain.Event
	err := c.mutate(ctx, http.MethodPost, pathEvents, in, &ev, pathEvents)
	return ev, err
}

func (c *Client) Meetings(ctx context.Context) ([]domain.Meeting, error) {
	var meetings []domain.Meeting
	err := c.query(ctx, pathMeetings, &meetings)
	return meetings, err
}

func (c *Client) AllMeetings(ctx context.Context) ([]domain.Meeting, error) {
	var meetings []domain.Meeting
	err := c.query(ctx, pathMeetings+"/all", &meetings)
	return meetings, err
}

func (c *Client) CreateMeeting(ctx context.Context, in domain.NewMeeting) (domain.Meeting, error) {
	var m domain.Meeting
	err := c.mutate(ctx, http.MethodPost, pathMeetings, in, &m, pathMeetings, pathStats, pathEvents)
	return m, err
}

func (c *Client) UpdateMeeting(ctx context.Context, id int64, patch domain.MeetingPatch) (domain.Meeting, error) {
	var m domain.Meeting
	err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("%s/%d", pathMeetings, id), patch, &m, pathMeetings, pathStats, pathEvents)
	return m, err
}

// ExportMeetings copia a planilha XLSX para w.
func (c *Client) ExportMeetings(ctx context.Context, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, pathMeetings+"/export", nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Code: "EXPORT", Message: http.StatusText(resp.StatusCode)}
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) MeetingRequests(ctx context.Context) ([]domain.MeetingRequest, error) {
	var reqs []domain.MeetingRequest
	err := c.query(ctx, pathRequests, &reqs)
	return reqs, err
}

func (c *Client) PendingRequests(ctx context.Context) ([]domain.MeetingRequest, error) {
	var reqs []domain.MeetingRequest
	err := c.query(ctx, pathRequests+"/pending", &reqs)
	return reqs, err
}

func (c *Client) CreateMeetingRequest(ctx context.Context, in domain.NewMeetingRequest) (domain.MeetingRequest, error) {
	var r domain.MeetingRequest
	err := c.mutate(ctx, http.MethodPost, pathRequests, in, &r, pathRequests)
	return r, err
}

// RespondMeetingRequest aprova ou recusa uma solicitação recebida.
func (c *Client) RespondMeetingRequest(ctx context.Context, id int64, status string, response *string) (domain.MeetingRequest, error) {
	patch := domain.MeetingRequestPatch{Status: &status, ResponseMessage: response}
	var r domain.MeetingRequest
	err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("%s/%d", pathRequests, id), patch, &r, pathRequests, pathNotifications)
	return r, err
}

func (c *Client) Notifications(ctx context.Context) ([]domain.Notification, error) {
	var items []domain.Notification
	err := c.query(ctx, pathNotifications, &items)
	return items, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) (domain.Notification, error) {
	var n domain.Notification
	err := c.mutate(ctx, http.MethodPut, fmt.Sprintf("%s/%d/read", pathNotifications, id), nil, &n, pathNotifications)
	return n, err
}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := c.query(ctx, pathStats, &s)
	return s, err
}

// DailySchedule busca a grade do dia; date vazio significa hoje.
func (c *Client) DailySchedule(ctx context.Context, date string) (schedule.Day, error) {
	path := pathSchedule + "/daily"
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}
	var day schedule.Day
	err := c.query(ctx, path, &day)
	return day, err
}
