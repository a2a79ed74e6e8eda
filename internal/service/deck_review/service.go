package deck_review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
)

// DeckReviewService produces narrative feedback for a complete deck.
type DeckReviewService interface {
	// ReviewDeck asks the text generator to review the deck.
	//
	// The deck must be accessible to ownerID and complete; otherwise the
	// generator is not called and service.ErrNotAccessible or
	// domain.ErrIncompleteDeck is returned. Exactly one generator call is
	// made, with no retry. A generator failure is returned as a
	// *ReviewServiceError. A response that cannot be read as a structured
	// review is not an error: the raw text becomes the overall review and
	// the result is marked Degraded.
	ReviewDeck(ctx context.Context, ownerID, deckID uuid.UUID) (*domain.Review, error)
}

// ItemLister loads the items of a deck ordered by position.
// store.ItemStore implements it.
type ItemLister interface {
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Item, error)
}

// ErrReviewService indicates that the text generation collaborator failed.
// API layer should map this to HTTP 502 Bad Gateway.
var ErrReviewService = errors.New("review service failed")

// ReviewServiceError wraps a failed generator call with details that are
// safe to show to the user.
type ReviewServiceError struct {
	DeckID  uuid.UUID
	Details string
	Err     error
}

// Error implements the error interface.
func (e *ReviewServiceError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("review of deck %s failed: %s", e.DeckID, e.Details)
	}
	return fmt.Sprintf("review of deck %s failed", e.DeckID)
}

// Unwrap makes the error match ErrReviewService and the generator's error.
func (e *ReviewServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrReviewService}
	}
	return []error{ErrReviewService, e.Err}
}
