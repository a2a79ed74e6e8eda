package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names a kind of deck event.
type Type string

// Event types emitted by the deck services.
const (
	DeckCreated     Type = "deck.created"
	DeckUpdated     Type = "deck.updated"
	DeckDeleted     Type = "deck.deleted"
	ItemSaved       Type = "item.saved"
	ReviewCompleted Type = "review.completed"
	ReviewDegraded  Type = "review.degraded"
	ReviewFailed    Type = "review.failed"
)

// DeckEvent records something that happened to a deck.
type DeckEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type    Type      `json:"type"`
	DeckID  uuid.UUID `json:"deck_id"`
	OwnerID uuid.UUID `json:"owner_id"`

	// Position is set for item events only.
	Position int `json:"position,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// NewDeckEvent creates an event stamped with the current time.
func NewDeckEvent(eventType Type, deckID, ownerID uuid.UUID) *DeckEvent {
	return &DeckEvent{
		ID:         uuid.New(),
		Type:       eventType,
		DeckID:     deckID,
		OwnerID:    ownerID,
		OccurredAt: time.Now().UTC(),
	}
}

// WithPosition sets the item position and returns the event.
func (e *DeckEvent) WithPosition(position int) *DeckEvent {
	e.Position = position
	return e
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *DeckEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *DeckEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *DeckEvent) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *DeckEvent) error {
	return f(ctx, event)
}
