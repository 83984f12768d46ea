// Package testutil provides test helpers for container-backed storage tests.
package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/corsair/internal/config"
	"github.com/cory-johannsen/corsair/internal/storage/postgres"
)

// PostgresContainer is a disposable PostgreSQL server with the repository's
// migrations applied.
type PostgresContainer struct {
	container testcontainers.Container
	Config    config.DatabaseConfig
	DB        *pgxpool.Pool
}

// NewPostgresContainer starts PostgreSQL, runs every migration under the
// module's migrations directory and connects a pool. The container is
// terminated when t finishes.
//
// Postcondition: the test is skipped when no container provider is
// available; any other startup failure fails it.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()
	start := time.Now()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "corsair",
				"POSTGRES_PASSWORD": "corsair",
				"POSTGRES_DB":       "corsair_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v [%s]", err, time.Since(start))
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	pc := &PostgresContainer{
		container: container,
		Config: config.DatabaseConfig{
			Host:            host,
			Port:            port.Int(),
			User:            "corsair",
			Password:        "corsair",
			Name:            "corsair_test",
			SSLMode:         "disable",
			MaxConns:        4,
			MinConns:        1,
			MaxConnLifetime: 5 * time.Minute,
		},
	}

	m, err := migrate.New("file://"+MigrationsDir(t), pc.Config.DSN())
	if err != nil {
		t.Fatalf("creating migrator: %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("migrating: %v", err)
	}
	m.Close()

	pc.DB, err = postgres.Connect(ctx, pc.Config)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	t.Cleanup(pc.DB.Close)
	t.Logf("postgres ready [%s]", time.Since(start))
	return pc
}

// Reset empties every table the migrations create.
func (pc *PostgresContainer) Reset(t *testing.T) {
	t.Helper()
	if _, err := pc.DB.Exec(context.Background(), `TRUNCATE saves`); err != nil {
		t.Fatalf("truncating: %v", err)
	}
}

// MigrationsDir finds the module's migrations directory by walking up from
// the working directory to go.mod.
func MigrationsDir(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "migrations")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("no go.mod above the working directory")
		}
		dir = parent
	}
}
