package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
)

// DeckStore persists deck metadata.
type DeckStore interface {
	// Create inserts a new deck.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID returns the deck with the given ID or ErrDeckNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// GetOwned returns the deck only when it exists and belongs to ownerID.
	// Both a missing deck and a foreign deck yield ErrDeckNotFound.
	GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Deck, error)

	// ListByOwner returns the owner's decks, most recently updated first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Deck, error)

	// Update writes title, description and updated_at. The owner is immutable.
	Update(ctx context.Context, deck *domain.Deck) error

	// Touch sets updated_at without changing anything else.
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error

	// Delete removes the deck and, through the schema, all of its items.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a DeckStore that runs its queries on tx.
	WithTx(tx *sql.Tx) DeckStore
}
