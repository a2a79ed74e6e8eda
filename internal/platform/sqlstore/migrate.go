package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/phrazzld/inception-api/internal/platform/logger"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// Migration commands accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateVersion = "version"
	MigrateReset   = "reset"
)

// NewMigrator returns a goose provider over the embedded migrations for d.
func NewMigrator(db *sql.DB, d Dialect) (*goose.Provider, error) {
	sub, err := fs.Sub(migrationFS, "migrations/"+string(d))
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s migrations: %w", d, err)
	}

	provider, err := goose.NewProvider(d.gooseDialect(), db, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate runs a migration command against db.
func Migrate(ctx context.Context, db *sql.DB, d Dialect, command string) error {
	log := logger.FromContext(ctx).With("component", "migrations", "dialect", string(d))

	provider, err := NewMigrator(db, d)
	if err != nil {
		return err
	}

	switch command {
	case MigrateUp:
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		for _, r := range results {
			log.Info("migration applied", "path", r.Source.Path, "duration", r.Duration)
		}
		if len(results) == 0 {
			log.Info("no pending migrations")
		}

	case MigrateDown:
		r, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		log.Info("migration rolled back", "path", r.Source.Path)

	case MigrateReset:
		results, err := provider.DownTo(ctx, 0)
		if err != nil {
			return fmt.Errorf("migrate reset: %w", err)
		}
		log.Info("migrations reset", "rolled_back", len(results))

	case MigrateStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		for _, s := range statuses {
			log.Info("migration status",
				"version", s.Source.Version,
				"path", s.Source.Path,
				"state", string(s.State),
				"applied_at", s.AppliedAt,
			)
		}

	case MigrateVersion:
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("migrate version: %w", err)
		}
		log.Info("current migration version", "version", version)

	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	return nil
}
