package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Deck is the aggregate root of a planning document: its metadata plus
// the ten fixed-position items stored alongside it.
type Deck struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeckSummary is a deck together with its progress, used for listings.
type DeckSummary struct {
	Deck
	FilledCount int  `json:"filled_count"`
	IsComplete  bool `json:"is_complete"`
}

// NewDeck creates an empty deck owned by ownerID.
// The title is kept as submitted but must contain a non-space character.
func NewDeck(ownerID uuid.UUID, title string, description *string) (*Deck, error) {
	now := Now()
	deck := &Deck{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return deck, nil
}

// Validate checks the deck's invariants.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if d.OwnerID == uuid.Nil {
		return NewValidationError("owner_id", "cannot be empty", ErrInvalidID)
	}
	return ValidateTitle(d.Title)
}

// ApplyUpdate changes the supplied fields; nil arguments leave the field as is.
// The owner never changes.
func (d *Deck) ApplyUpdate(title, description *string) error {
	if title != nil {
		if err := ValidateTitle(*title); err != nil {
			return err
		}
		d.Title = *title
	}
	if description != nil {
		d.Description = description
	}
	d.UpdatedAt = Now()
	return nil
}

// ValidateTitle returns ErrInvalidTitle for empty or whitespace-only titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidTitle
	}
	return nil
}

// IsComplete reports whether items fill every position 1..10 with
// non-blank content. It is computed from the items given and never cached.
func IsComplete(items []Item) bool {
	return FilledCount(items) == DeckSize
}

// FilledCount returns how many distinct valid positions hold non-blank content.
func FilledCount(items []Item) int {
	var filled [DeckSize]bool
	count := 0
	for i := range items {
		item := &items[i]
		if ValidatePosition(item.Position) != nil || !item.IsFilled() {
			continue
		}
		if !filled[item.Position-MinPosition] {
			filled[item.Position-MinPosition] = true
			count++
		}
	}
	return count
}

// Summarize builds a DeckSummary from a deck and its items.
func Summarize(deck Deck, items []Item) DeckSummary {
	filled := FilledCount(items)
	return DeckSummary{
		Deck:        deck,
		FilledCount: filled,
		IsComplete:  filled == DeckSize,
	}
}
