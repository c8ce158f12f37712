package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agiseventos/agenda/internal/auth"
	"github.com/agiseventos/agenda/internal/db"
	"github.com/agiseventos/agenda/internal/store/fixtures"
	"github.com/agiseventos/agenda/internal/store/postgres"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "hash" {
		if err := runHash(args); err != nil {
			log.Fatal().Err(err).Msg("falha ao gerar hash")
		}
		return
	}

	_ = godotenv.Load()

	ctx := context.Background()

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if dsn == "" {
		log.Fatal().Msg("defina DB_DSN ou DATABASE_URL")
	}

	switch cmd {
	case "up", "down", "status", "reset", "version":
		if err := db.Migrate(ctx, dsn, cmd); err != nil {
			log.Fatal().Err(err).Str("command", cmd).Msg("falha na migração")
		}
	case "seed":
		if err := runSeed(ctx, dsn, args); err != nil {
			log.Fatal().Err(err).Msg("falha ao popular banco")
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "migrate CLI")
	fmt.Fprintln(os.Stderr, "uso:")
	fmt.Fprintln(os.Stderr, "  migrate up|down|status|reset|version")
	fmt.Fprintln(os.Stderr, "  migrate seed [--fresh]")
	fmt.Fprintln(os.Stderr, "  migrate hash <senha>")
}

func runSeed(ctx context.Context, dsn string, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fresh := fs.Bool("fresh", false, "apaga os dados antes de popular")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := db.Migrate(ctx, dsn, "up"); err != nil {
		return err
	}

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	st := postgres.New(pool)
	if *fresh {
		if err := st.Truncate(ctx); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
		log.Info().Msg("dados removidos")
	}

	if err := fixtures.Seed(ctx, st, time.Now()); err != nil {
		return err
	}
	log.Info().Msg("fixtures aplicadas")
	return nil
}

func runHash(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("uso: migrate hash <senha>")
	}
	hash, err := auth.Hash(args[0])
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
