package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Position bounds for deck items. Every deck has exactly DeckSize slots.
const (
	MinPosition = 1
	MaxPosition = 10
	DeckSize    = MaxPosition - MinPosition + 1
)

// Item is the content of one question slot of a deck.
//
// Items are created lazily the first time a position is written and are
// never deleted on their own; they disappear together with their deck.
// Content is stored exactly as submitted: nil and "" are distinct values.
type Item struct {
	ID        uuid.UUID `json:"id"`
	DeckID    uuid.UUID `json:"deck_id"`
	Position  int       `json:"position"`
	Content   *string   `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidatePosition returns ErrInvalidPosition unless position is in 1..10.
func ValidatePosition(position int) error {
	if position < MinPosition || position > MaxPosition {
		return ErrInvalidPosition
	}
	return nil
}

// NewItem builds an item for the given deck slot.
func NewItem(deckID uuid.UUID, position int, content *string) (*Item, error) {
	if deckID == uuid.Nil {
		return nil, NewValidationError("deck_id", "cannot be empty", ErrInvalidID)
	}
	if err := ValidatePosition(position); err != nil {
		return nil, err
	}

	now := Now()
	return &Item{
		ID:        uuid.New(),
		DeckID:    deckID,
		Position:  position,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsFilled reports whether the item has non-blank content.
func (i *Item) IsFilled() bool {
	return i != nil && i.Content != nil && strings.TrimSpace(*i.Content) != ""
}

// Now returns the current UTC time truncated to the precision every
// supported database can store, so values survive a round trip unchanged.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
