package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agiseventos/agenda/internal/client"
	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/views"
)

var errUsage = errors.New("uso inválido")

type app struct {
	api       *client.Client
	tokenFile string
	loc       *time.Location
	out       io.Writer
	now       func() time.Time
}

// newApp monta o cliente; envToken tem precedência sobre o arquivo salvo.
func newApp(baseURL, tokenFile, envToken string, loc *time.Location, out io.Writer) *app {
	token := envToken
	if token == "" {
		if raw, err := os.ReadFile(tokenFile); err == nil {
			token = strings.TrimSpace(string(raw))
		}
	}
	return &app{
		api:       client.New(baseURL, client.WithToken(token)),
		tokenFile: tokenFile,
		loc:       loc,
		out:       out,
		now:       time.Now,
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout(ctx)
	case "dashboard":
		return a.dashboard(ctx)
	case "meetings":
		return a.meetings(ctx, args)
	case "requests":
		return a.requests(ctx, args)
	case "participants":
		return a.participants(ctx, args)
	case "schedule":
		return a.schedule(ctx, args)
	case "profile":
		return a.profile(ctx)
	case "respond":
		return a.respond(ctx, args)
	case "export":
		return a.export(ctx, args)
	default:
		return errUsage
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "email cadastrado")
	password := fs.String("password", "", "senha")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errUsage
	}

	res, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.saveToken(res.Token); err != nil {
		return err
	}
	log.Debug().Str("token_file", a.tokenFile).Msg("token salvo")
	return views.Login(a.out, *res)
}

func (a *app) logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	if rmErr := os.Remove(a.tokenFile); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		log.Warn().Err(rmErr).Msg("não foi possível remover o token salvo")
	}
	if err != nil && !client.IsUnauthorized(err) {
		return err
	}
	_, werr := fmt.Fprintln(a.out, "Sessão encerrada")
	return werr
}

func (a *app) saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(a.tokenFile), 0o700); err != nil {
		return fmt.Errorf("diretório do token: %w", err)
	}
	if err := os.WriteFile(a.tokenFile, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("salvar token: %w", err)
	}
	return nil
}

// directory indexa os participantes para resolver nomes nas listagens.
func (a *app) directory(ctx context.Context) (map[int64]domain.User, error) {
	users, err := a.api.Users(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (a *app) dashboard(ctx context.Context) error {
	me, err := a.api.CurrentUser(ctx)
	if err != nil {
		return err
	}
	stats, err := a.api.Stats(ctx)
	if err != nil {
		return err
	}
	meetings, err := a.api.Meetings(ctx)
	if err != nil {
		return err
	}
	notifications, err := a.api.Notifications(ctx)
	if err != nil {
		return err
	}
	users, err := a.directory(ctx)
	if err != nil {
		return err
	}

	return views.Dashboard(a.out, views.DashboardData{
		User:          me,
		Stats:         stats,
		Meetings:      meetings,
		Notifications: notifications,
		Users:         users,
		Now:           a.now(),
		Location:      a.loc,
	})
}

func (a *app) meetings(ctx context.Context, args []string) error {
	fs := newFlagSet("meetings")
	all := fs.Bool("all", false, "todas as reuniões (administrador)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var (
		meetings []domain.Meeting
		err      error
	)
	if *all {
		meetings, err = a.api.AllMeetings(ctx)
	} else {
		meetings, err = a.api.Meetings(ctx)
	}
	if err != nil {
		return err
	}
	users, err := a.directory(ctx)
	if err != nil {
		return err
	}
	return views.Meetings(a.out, meetings, users, a.loc)
}

func (a *app) requests(ctx context.Context, args []string) error {
	fs := newFlagSet("requests")
	pending := fs.Bool("pending", false, "apenas pendentes recebidas")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	me, err := a.api.CurrentUser(ctx)
	if err != nil {
		return err
	}
	var requests []domain.MeetingRequest
	if *pending {
		requests, err = a.api.PendingRequests(ctx)
	} else {
		requests, err = a.api.MeetingRequests(ctx)
	}
	if err != nil {
		return err
	}
	users, err := a.directory(ctx)
	if err != nil {
		return err
	}
	return views.Requests(a.out, me, requests, users, a.loc)
}

func (a *app) participants(ctx context.Context, args []string) error {
	fs := newFlagSet("participants")
	userType := fs.String("type", "", "filtra por tipo")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *userType != "" && !domain.IsValidUserType(*userType) {
		return fmt.Errorf("%w: tipo %q", errUsage, *userType)
	}

	users, err := a.api.Users(ctx, *userType)
	if err != nil {
		return err
	}
	return views.Participants(a.out, users)
}

func (a *app) schedule(ctx context.Context, args []string) error {
	fs := newFlagSet("schedule")
	date := fs.String("date", "", "dia no formato AAAA-MM-DD (padrão: hoje)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *date != "" {
		if _, err := time.Parse("2006-01-02", *date); err != nil {
			return fmt.Errorf("%w: data %q", errUsage, *date)
		}
	}

	day, err := a.api.DailySchedule(ctx, *date)
	if err != nil {
		return err
	}
	return views.Schedule(a.out, day)
}

func (a *app) profile(ctx context.Context) error {
	me, err := a.api.CurrentUser(ctx)
	if err != nil {
		return err
	}
	return views.Profile(a.out, me)
}

func (a *app) respond(ctx context.Context, args []string) error {
	fs := newFlagSet("respond")
	id := fs.Int64("id", 0, "id da solicitação")
	status := fs.String("status", "", "approved ou rejected")
	message := fs.String("message", "", "resposta opcional")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id <= 0 || (*status != domain.RequestApproved && *status != domain.RequestRejected) {
		return errUsage
	}

	var response *string
	if *message != "" {
		response = message
	}
	req, err := a.api.RespondMeetingRequest(ctx, *id, *status, response)
	if err != nil {
		return err
	}
	verb := "aprovada"
	if req.Status == domain.RequestRejected {
		verb = "recusada"
	}
	_, err = fmt.Fprintf(a.out, "Solicitação #%d %s\n", req.ID, verb)
	return err
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := newFlagSet("export")
	path := fs.String("o", "", "arquivo de saída")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *path == "" {
		*path = fmt.Sprintf("reunioes-%s.xlsx", a.now().In(a.loc).Format("2006-01-02"))
	}

	f, err := os.Create(*path)
	if err != nil {
		return err
	}
	if err := a.api.ExportMeetings(ctx, f); err != nil {
		_ = f.Close()
		_ = os.Remove(*path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "Planilha salva em %s\n", *path)
	return err
}
