// migrate aplica o revierte las migraciones embebidas contra la base configurada.
//
// Uso: go run ./cmd/migrate [up|down|status]
// Sin argumentos ejecuta up. Lee la conexión de las mismas variables que la API (DB_*, DATABASE_URL).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/postgres"
	"github.com/VishalKmk/Inventory-Management-App/pkg/config"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, command, cfg.DB, log); err != nil {
		log.Error().Err(err).Str("command", command).Msg("migración fallida")
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, dbCfg config.DBConfig, log *logger.Logger) error {
	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	provider, closeDB, err := postgres.NewMigrator(pool)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			log.Info().Int64("version", r.Source.Version).Str("file", r.Source.Path).Dur("duration", r.Duration).Msg("migración aplicada")
		}
		log.Info().Int("applied", len(results)).Msg("base de datos al día")
	case "down":
		r, err := provider.Down(ctx)
		if err != nil {
			return err
		}
		log.Info().Int64("version", r.Source.Version).Str("file", r.Source.Path).Msg("migración revertida")
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			ev := log.Info().Int64("version", s.Source.Version).Str("file", s.Source.Path).Str("state", string(s.State))
			if !s.AppliedAt.IsZero() {
				ev = ev.Time("applied_at", s.AppliedAt)
			}
			ev.Msg("estado")
		}
	default:
		return fmt.Errorf("comando desconocido %q (use up, down o status)", command)
	}
	return nil
}
