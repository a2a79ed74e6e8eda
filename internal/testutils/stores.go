package testutils

import (
	"database/sql"
	"testing"

	"github.com/phrazzld/inception-api/internal/platform/sqlstore"
	"github.com/phrazzld/inception-api/internal/testdb"
	"golang.org/x/crypto/bcrypt"
)

// TestStores holds the SQL stores of one private, migrated SQLite database.
type TestStores struct {
	DB    *sql.DB
	Users *sqlstore.UserStore
	Decks *sqlstore.DeckStore
	Items *sqlstore.ItemStore
}

// CreateTestStores opens a fresh in-memory database and builds every store
// on it. bcrypt runs at its minimum cost for speed.
func CreateTestStores(t *testing.T) *TestStores {
	t.Helper()

	db := testdb.NewSQLite(t)
	return &TestStores{
		DB:    db,
		Users: sqlstore.NewUserStore(db, sqlstore.SQLite, bcrypt.MinCost),
		Decks: sqlstore.NewDeckStore(db, sqlstore.SQLite),
		Items: sqlstore.NewItemStore(db, sqlstore.SQLite),
	}
}
