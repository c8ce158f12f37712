package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/agiseventos/agenda/internal/config"
	"github.com/agiseventos/agenda/internal/domain"
	httpmiddleware "github.com/agiseventos/agenda/internal/http/middleware"
	"github.com/agiseventos/agenda/internal/metrics"
	"github.com/agiseventos/agenda/internal/schedule"
	"github.com/agiseventos/agenda/internal/service"
	"github.com/agiseventos/agenda/internal/session"
	"github.com/agiseventos/agenda/internal/store"
)

// Deps reúne as dependências já construídas pelo binário.
type Deps struct {
	Store         store.Store
	Sessions      session.Store
	Auth          *service.AuthService
	Users         *service.UserService
	Events        *service.EventService
	Meetings      *service.MeetingService
	Requests      *service.RequestService
	Notifications *service.NotificationService
	Stats         *service.StatsService
	Schedule      *schedule.Service
	// Metrics nil desativa /metrics e a instrumentação.
	Metrics *metrics.Metrics
}

type Handler struct {
	cfg           *config.Config
	deps          Deps
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
	now           func() time.Time
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	h := &Handler{
		cfg:           cfg,
		deps:          deps,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
		now:           time.Now,
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))
	r.Use(httpmiddleware.Recover(cfg.IsDevelopment()))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Group(func(public chi.Router) {
			public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

			public.Get("/health", h.Health)
			public.Get("/ready", h.Ready)
			public.Post("/auth/login", h.Login)
			public.Post("/auth/register", h.Register)
		})

		api.Group(func(private chi.Router) {
			private.Use(httpmiddleware.Auth(deps.Auth))
			private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

			private.Get("/auth/user", h.CurrentUser)
			private.Post("/auth/logout", h.Logout)

			private.Route("/users", func(u chi.Router) {
				u.Get("/", h.ListUsers)
				u.Get("/type/{type}", h.ListUsersByType)
				u.Get("/{id}", h.GetUser)
				u.Put("/{id}", h.UpdateUser)
				u.Post("/{id}/avatar", h.UploadAvatar)
			})

			private.Route("/events", func(e chi.Router) {
				e.Get("/", h.ListEvents)
				e.Get("/{id}", h.GetEvent)
				e.With(httpmiddleware.RequireAdmin).Post("/", h.CreateEvent)
				e.With(httpmiddleware.RequireAdmin).Get("/{id}/meetings", h.EventMeetings)
			})

			private.Route("/meetings", func(m chi.Router) {
				m.Get("/", h.ListMeetings)
				m.With(httpmiddleware.RequireAdmin).Get("/all", h.ListAllMeetings)
				m.Get("/export", h.ExportMeetings)
				m.Get("/{id}", h.GetMeeting)
				m.Post("/", h.CreateMeeting)
				m.Put("/{id}", h.UpdateMeeting)
			})

			private.Route("/meeting-requests", func(mr chi.Router) {
				mr.Get("/", h.ListMeetingRequests)
				mr.Get("/pending", h.PendingMeetingRequests)
				mr.Post("/", h.CreateMeetingRequest)
				mr.Put("/{id}", h.UpdateMeetingRequest)
			})

			private.Route("/notifications", func(n chi.Router) {
				n.Get("/", h.ListNotifications)
				n.Post("/", h.CreateNotification)
				n.Put("/{id}/read", h.MarkNotificationRead)
			})

			private.Get("/stats", h.Stats)
			private.Get("/schedule/daily", h.DailySchedule)
		})
	})

	return r
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"timestamp":   h.now().UTC().Format(time.RFC3339),
		"environment": h.cfg.Env,
	})
}

// Ready valida conexões com o storage e o store de sessões.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	storeErr := h.deps.Store.Ping(ctx)
	sessionErr := h.deps.Sessions.Ping(ctx)

	if storeErr != nil || sessionErr != nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "dependências indisponíveis", map[string]any{
			"store":    errorString(storeErr),
			"sessions": errorString(sessionErr),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func currentUser(r *http.Request) domain.User {
	user, _ := httpmiddleware.GetUser(r.Context())
	return user
}
