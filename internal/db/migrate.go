package db

import (
	"context"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrate executa o comando goose informado (up, down, status, reset, version)
// contra o banco apontado por dsn.
func Migrate(ctx context.Context, dsn, command string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("abrir banco: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, sqlDB, migrationsDir)
	case "down":
		return goose.DownContext(ctx, sqlDB, migrationsDir)
	case "status":
		return goose.StatusContext(ctx, sqlDB, migrationsDir)
	case "reset":
		return goose.ResetContext(ctx, sqlDB, migrationsDir)
	case "version":
		return goose.VersionContext(ctx, sqlDB, migrationsDir)
	default:
		return fmt.Errorf("comando de migração desconhecido: %s", command)
	}
}
