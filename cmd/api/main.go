package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agiseventos/agenda/internal/config"
	"github.com/agiseventos/agenda/internal/db"
	internalhttp "github.com/agiseventos/agenda/internal/http"
	"github.com/agiseventos/agenda/internal/metrics"
	"github.com/agiseventos/agenda/internal/notify"
	"github.com/agiseventos/agenda/internal/schedule"
	"github.com/agiseventos/agenda/internal/service"
	"github.com/agiseventos/agenda/internal/session"
	"github.com/agiseventos/agenda/internal/storage"
	"github.com/agiseventos/agenda/internal/store"
	"github.com/agiseventos/agenda/internal/store/fixtures"
	"github.com/agiseventos/agenda/internal/store/memory"
	"github.com/agiseventos/agenda/internal/store/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !cfg.IsDevelopment() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions, closeSessions, err := openSessions(cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	if cfg.SeedFixtures {
		if err := fixtures.Seed(ctx, st, time.Now()); err != nil {
			return fmt.Errorf("fixtures: %w", err)
		}
	}

	uploader, err := newUploader(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	notifications := service.NewNotificationService(st, notify.NewSlackForwarder(cfg.SlackWebhookURL))
	events := service.NewEventService(st)
	generator := schedule.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())), cfg.ScheduleTimezone)

	deps := internalhttp.Deps{
		Store:         st,
		Sessions:      sessions,
		Auth:          service.NewAuthService(st, sessions),
		Users:         service.NewUserService(st, uploader),
		Events:        events,
		Meetings:      service.NewMeetingService(st, notifications),
		Requests:      service.NewRequestService(st, notifications),
		Notifications: notifications,
		Stats:         service.NewStatsService(st),
		Schedule:      schedule.NewService(st, events, generator),
	}
	if cfg.MetricsEnabled {
		deps.Metrics = metrics.New()
	}

	var handler http.Handler = internalhttp.NewRouter(cfg, deps)
	if cfg.Storage.Provider == "local" && strings.HasPrefix(cfg.Storage.PublicURL, "/") {
		handler = withLocalFiles(handler, cfg.Storage.PublicURL, cfg.Storage.Dir)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("env", cfg.Env).
			Str("storage", cfg.StorageDriver).
			Str("sessions", cfg.SessionDriver).
			Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.StorageDriver != "postgres" {
		return memory.New(), func() {}, nil
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, cfg.DBDSN, "up"); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db: %w", err)
	}
	return postgres.New(pool), pool.Close, nil
}

func openSessions(cfg *config.Config) (session.Store, func(), error) {
	if cfg.SessionDriver != "redis" {
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	return session.NewRedisStore(redisClient, cfg.SessionTTL), func() { _ = redisClient.Close() }, nil
}

func newUploader(ctx context.Context, cfg *config.Config) (storage.Uploader, error) {
	switch cfg.Storage.Provider {
	case "", "noop":
		return storage.NoopUploader{}, nil
	case "local":
		return storage.NewLocalUploader(cfg.Storage.Dir, cfg.Storage.PublicURL)
	case "s3":
		return storage.NewS3Uploader(ctx, storage.S3Config{
			Endpoint:     cfg.Storage.S3Endpoint,
			Region:       cfg.Storage.S3Region,
			Bucket:       cfg.Storage.S3Bucket,
			AccessKey:    cfg.Storage.S3AccessKey,
			SecretKey:    cfg.Storage.S3SecretKey,
			PublicDomain: cfg.Storage.S3PublicURL,
		})
	default:
		return nil, fmt.Errorf("provedor %s não suportado", cfg.Storage.Provider)
	}
}

// withLocalFiles serve os avatares gravados em disco sob prefix.
func withLocalFiles(next http.Handler, prefix, dir string) http.Handler {
	prefix = strings.TrimRight(prefix, "/") + "/"
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, prefix) {
			files.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
