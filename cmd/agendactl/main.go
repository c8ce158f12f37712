package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agiseventos/agenda/internal/client"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := os.Args[1]
	a := newApp(
		getEnv("AGENDA_API_URL", "http://localhost:8080"),
		tokenPath(),
		strings.TrimSpace(os.Getenv("AGENDA_TOKEN")),
		loadLocation(getEnv("SCHEDULE_TIMEZONE", "America/Sao_Paulo")),
		os.Stdout,
	)

	err := a.run(ctx, cmd, os.Args[2:])
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		usage()
		os.Exit(2)
	case client.IsUnauthorized(err):
		log.Error().Msg("sessão inválida ou expirada, execute: agendactl login")
		os.Exit(1)
	default:
		log.Fatal().Err(err).Str("command", cmd).Msg("comando falhou")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "agendactl: cliente de terminal da agenda de rodadas")
	fmt.Fprintln(os.Stderr, "uso:")
	fmt.Fprintln(os.Stderr, "  agendactl login -email <email> -password <senha>")
	fmt.Fprintln(os.Stderr, "  agendactl logout")
	fmt.Fprintln(os.Stderr, "  agendactl dashboard")
	fmt.Fprintln(os.Stderr, "  agendactl meetings [-all]")
	fmt.Fprintln(os.Stderr, "  agendactl requests [-pending]")
	fmt.Fprintln(os.Stderr, "  agendactl participants [-type fabricante|revendedor|admin]")
	fmt.Fprintln(os.Stderr, "  agendactl schedule [-date AAAA-MM-DD]")
	fmt.Fprintln(os.Stderr, "  agendactl profile")
	fmt.Fprintln(os.Stderr, "  agendactl respond -id <n> -status approved|rejected [-message <texto>]")
	fmt.Fprintln(os.Stderr, "  agendactl export -o <arquivo.xlsx>")
	fmt.Fprintln(os.Stderr, "variáveis: AGENDA_API_URL, AGENDA_TOKEN, AGENDA_TOKEN_FILE, SCHEDULE_TIMEZONE")
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

// tokenPath indica onde o token de sessão fica salvo entre execuções.
func tokenPath() string {
	if p := strings.TrimSpace(os.Getenv("AGENDA_TOKEN_FILE")); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".agenda-token"
	}
	return filepath.Join(dir, "agenda", "token")
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Str("timezone", name).Msg("fuso inválido, usando UTC")
		return time.UTC
	}
	return loc
}
