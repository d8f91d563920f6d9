package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/VishalKmk/Inventory-Management-App/migrations"
)

// NewMigrator construye un provider de goose sobre las migraciones embebidas.
// goose necesita *sql.DB: se abre uno sobre el mismo pool. Llamar a closeFn al terminar.
func NewMigrator(pool *pgxpool.Pool) (provider *goose.Provider, closeFn func() error, err error) {
	db := stdlib.OpenDBFromPool(pool)
	provider, err = goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, db.Close, nil
}

// Migrate aplica todas las migraciones pendientes y devuelve cuántas se aplicaron.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	provider, closeDB, err := NewMigrator(pool)
	if err != nil {
		return 0, err
	}
	defer func() { _ = closeDB() }()

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("goose up: %w", err)
	}
	return len(results), nil
}
