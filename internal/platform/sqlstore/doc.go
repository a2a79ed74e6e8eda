// Package sqlstore implements the store interfaces on top of database/sql.
//
// The same stores serve PostgreSQL (through pgx's stdlib driver) and SQLite
// (through the pure-Go modernc driver); queries are built with squirrel
// using the placeholder format of the selected Dialect. Schema changes are
// embedded goose migrations, one directory per dialect.
//
// Deleting a deck removes its items through ON DELETE CASCADE, so SQLite
// connections are always opened with foreign keys enabled.
package sqlstore
