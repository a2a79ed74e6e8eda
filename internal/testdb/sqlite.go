// Package testdb provides migrated databases for tests.
//
// SQLite databases are in-memory and private to one test, so tests using
// them can run in parallel without cleanup. PostgreSQL databases come from
// a shared container and are only available under the integration build tag.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/inception-api/internal/platform/sqlstore"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds database setup in tests.
const TestTimeout = 10 * time.Second

// NewSQLite returns a fresh, fully migrated in-memory SQLite database that
// is closed when the test finishes.
func NewSQLite(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := sqlstore.Open(ctx, sqlstore.SQLite, ":memory:")
	require.NoError(t, err, "open sqlite")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlstore.Migrate(ctx, db, sqlstore.SQLite, sqlstore.MigrateUp), "migrate sqlite")
	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to rollback test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
