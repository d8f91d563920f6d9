// Package testhelper levanta un PostgreSQL efímero (testcontainers) con las migraciones aplicadas.
package testhelper

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/VishalKmk/Inventory-Management-App/internal/infrastructure/postgres"
	"github.com/VishalKmk/Inventory-Management-App/pkg/config"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// SetupTestDB arranca un contenedor compartido (una vez por proceso), aplica las migraciones
// y devuelve un pool nuevo. Se omite con -short o si Docker no está disponible.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("testhelper: integración omitida en modo -short")
	}

	once.Do(func() {
		sharedDSN, initErr = startContainerAndMigrate()
	})
	if initErr != nil {
		t.Skipf("testhelper: no se pudo levantar PostgreSQL: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: sharedDSN, MaxConns: 30})
	if err != nil {
		t.Fatalf("testhelper: crear pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func startContainerAndMigrate() (dsn string, err error) {
	defer func() {
		// testcontainers entra en pánico si no encuentra un daemon de Docker.
		if p := recover(); p != nil {
			err = fmt.Errorf("docker no disponible: %v", p)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "inventory_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("mapped port: %w", err)
	}
	dsn = fmt.Sprintf("postgres://testuser:testpass@%s:%s/inventory_test?sslmode=disable", host, port.Port())

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	if err != nil {
		return "", err
	}
	defer pool.Close()
	if _, err := postgres.Migrate(ctx, pool); err != nil {
		return "", err
	}
	return dsn, nil
}
