//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/inception-api/internal/platform/sqlstore"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	pgOnce    sync.Once
	pgDSN     string
	pgInitErr error
)

// NewPostgres returns a connection to a shared, migrated PostgreSQL
// container. The container is started once per test binary. Use WithTx to
// isolate tests from each other.
func NewPostgres(t *testing.T) *sql.DB {
	t.Helper()

	pgOnce.Do(func() {
		pgDSN, pgInitErr = startPostgres()
	})
	if pgInitErr != nil {
		t.Fatalf("testdb: failed to start postgres: %v", pgInitErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := sqlstore.Open(ctx, sqlstore.Postgres, pgDSN)
	require.NoError(t, err, "open postgres")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func startPostgres() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "deck",
			"POSTGRES_PASSWORD": "deck",
			"POSTGRES_DB":       "decks",
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
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://deck:deck@%s:%s/decks?sslmode=disable", host, port.Port())

	db, err := sqlstore.Open(ctx, sqlstore.Postgres, dsn)
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close() }()

	if err := sqlstore.Migrate(ctx, db, sqlstore.Postgres, sqlstore.MigrateUp); err != nil {
		return "", err
	}
	return dsn, nil
}
