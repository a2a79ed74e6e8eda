// Package store defines the persistence interfaces for users, decks and
// deck items, the errors they return, and transaction helpers. SQL
// implementations live in internal/platform/sqlstore.
package store
