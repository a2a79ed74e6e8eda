package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
)

// ItemStore persists the positioned items of decks.
type ItemStore interface {
	// Upsert writes the item's content at (DeckID, Position), inserting the
	// row on first write and overwriting content and updated_at afterwards.
	// On return item reflects the stored row, including the original
	// ID and CreatedAt when the row already existed.
	Upsert(ctx context.Context, item *domain.Item) error

	// Get returns the item at a position or ErrItemNotFound.
	Get(ctx context.Context, deckID uuid.UUID, position int) (*domain.Item, error)

	// ListByDeck returns a deck's items ordered by position.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Item, error)

	// ListByOwner returns every item of every deck owned by ownerID,
	// ordered by deck and position.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Item, error)

	// WithTx returns an ItemStore that runs its queries on tx.
	WithTx(tx *sql.Tx) ItemStore
}
