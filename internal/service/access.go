package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
	"github.com/phrazzld/inception-api/internal/store"
)

// Authorizer resolves a deck on behalf of a user.
type Authorizer interface {
	// Authorize returns the deck when ownerID owns it, and ErrNotAccessible
	// when the deck is missing or owned by someone else.
	Authorize(ctx context.Context, ownerID, deckID uuid.UUID) (*domain.Deck, error)
}

// AccessGate is the single place where deck ownership is enforced.
type AccessGate struct {
	decks store.DeckStore
}

var _ Authorizer = (*AccessGate)(nil)

// NewAccessGate creates an AccessGate backed by decks.
func NewAccessGate(decks store.DeckStore) *AccessGate {
	return &AccessGate{decks: decks}
}

// Authorize implements Authorizer.
func (g *AccessGate) Authorize(ctx context.Context, ownerID, deckID uuid.UUID) (*domain.Deck, error) {
	if ownerID == uuid.Nil || deckID == uuid.Nil {
		return nil, ErrNotAccessible
	}

	deck, err := g.decks.GetOwned(ctx, deckID, ownerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrNotAccessible
		}
		return nil, NewDeckServiceError("authorize", "failed to load deck", err)
	}
	return deck, nil
}
