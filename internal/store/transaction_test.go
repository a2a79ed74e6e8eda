package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/phrazzld/inception-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openCounterDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE counters (name TEXT PRIMARY KEY, value INTEGER NOT NULL)`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM counters`).Scan(&n))
	return n
}

func TestRunInTransaction_Commit(t *testing.T) {
	db := openCounterDB(t)

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO counters (name, value) VALUES ('a', 1)`)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, db))
}

func TestRunInTransaction_RollbackOnError(t *testing.T) {
	db := openCounterDB(t)
	fnErr := errors.New("function failed")

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO counters (name, value) VALUES ('a', 1)`); err != nil {
			return err
		}
		return fnErr
	})

	assert.ErrorIs(t, err, fnErr)
	assert.Equal(t, 0, countRows(t, db))
}

func TestRunInTransaction_RollbackOnPanic(t *testing.T) {
	db := openCounterDB(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			_, _ = tx.ExecContext(ctx, `INSERT INTO counters (name, value) VALUES ('a', 1)`)
			panic("boom")
		})
	})

	assert.Equal(t, 0, countRows(t, db))
}

func TestRunInTransaction_BeginFailure(t *testing.T) {
	db := openCounterDB(t)
	require.NoError(t, db.Close())

	called := false
	err := store.RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
		called = true
		return nil
	})

	assert.Error(t, err)
	assert.False(t, called)
}
