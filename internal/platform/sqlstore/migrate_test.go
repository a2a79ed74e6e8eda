package sqlstore_test

import (
	"context"
	"testing"

	"github.com/phrazzld/inception-api/internal/platform/sqlstore"
	"github.com/phrazzld/inception-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCommands(t *testing.T) {
	t.Parallel()
	db := testdb.NewSQLite(t)
	ctx := context.Background()

	provider, err := sqlstore.NewMigrator(db, sqlstore.SQLite)
	require.NoError(t, err)
	version, err := provider.GetDBVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, cmd := range []string{sqlstore.MigrateStatus, sqlstore.MigrateVersion, sqlstore.MigrateUp} {
		assert.NoError(t, sqlstore.Migrate(ctx, db, sqlstore.SQLite, cmd), cmd)
	}

	require.NoError(t, sqlstore.Migrate(ctx, db, sqlstore.SQLite, sqlstore.MigrateReset))
	version, err = provider.GetDBVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	_, err = db.ExecContext(ctx, "SELECT 1 FROM decks")
	assert.Error(t, err, "tables should be gone after reset")

	assert.Error(t, sqlstore.Migrate(ctx, db, sqlstore.SQLite, "sideways"))
}
