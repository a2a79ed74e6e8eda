package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/inception-api/internal/config"
	"github.com/phrazzld/inception-api/internal/platform/sqlstore"
)

// setupAppDatabase opens the configured database and verifies the connection.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (sqlstore.Dialect, *sql.DB, error) {
	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return "", nil, err
	}

	db, err := sqlstore.Open(ctx, dialect, cfg.Database.URL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("database connection established", slog.String("driver", string(dialect)))
	return dialect, db, nil
}
