package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
	"github.com/phrazzld/inception-api/internal/events"
	"github.com/phrazzld/inception-api/internal/platform/logger"
	"github.com/phrazzld/inception-api/internal/store"
)

// DeckWithItems is a deck together with the items written so far and its
// completion state, evaluated at read time.
type DeckWithItems struct {
	domain.Deck
	Items       []domain.Item `json:"items"`
	FilledCount int           `json:"filled_count"`
	IsComplete  bool          `json:"is_complete"`
}

// DeckService provides deck and item operations for a single owner.
// Every operation authorizes the caller first; decks that are missing or
// owned by someone else yield ErrNotAccessible.
type DeckService interface {
	// CreateDeck creates an empty deck. Returns domain.ErrInvalidTitle for
	// blank titles.
	CreateDeck(ctx context.Context, ownerID uuid.UUID, title string, description *string) (*domain.Deck, error)

	// GetDeck returns the deck with its items ordered by position.
	GetDeck(ctx context.Context, ownerID, deckID uuid.UUID) (*DeckWithItems, error)

	// ListDecks returns the owner's decks with progress, most recently
	// updated first.
	ListDecks(ctx context.Context, ownerID uuid.UUID) ([]domain.DeckSummary, error)

	// UpdateDeck changes the supplied fields. nil leaves a field unchanged.
	UpdateDeck(ctx context.Context, ownerID, deckID uuid.UUID, title, description *string) (*domain.Deck, error)

	// DeleteDeck removes the deck and all of its items.
	DeleteDeck(ctx context.Context, ownerID, deckID uuid.UUID) error

	// SaveItem upserts the content at a position and bumps the deck's
	// updated_at in the same transaction. Returns domain.ErrInvalidPosition
	// outside 1..10.
	SaveItem(ctx context.Context, ownerID, deckID uuid.UUID, position int, content *string) (*domain.Item, error)

	// GetItem returns the item at a position or store.ErrItemNotFound.
	GetItem(ctx context.Context, ownerID, deckID uuid.UUID, position int) (*domain.Item, error)

	// ListItems returns the deck's items ordered by position.
	ListItems(ctx context.Context, ownerID, deckID uuid.UUID) ([]domain.Item, error)

	// ExportMarkdown renders the deck as a printable Markdown document.
	ExportMarkdown(ctx context.Context, ownerID, deckID uuid.UUID) (*DeckExport, error)
}

type deckServiceImpl struct {
	db      store.TxBeginner
	decks   store.DeckStore
	items   store.ItemStore
	gate    Authorizer
	emitter events.EventEmitter
	logger  *slog.Logger
}

var _ DeckService = (*deckServiceImpl)(nil)

// NewDeckService creates a new DeckService.
// It returns an error if any of the required dependencies are nil.
func NewDeckService(
	db store.TxBeginner,
	decks store.DeckStore,
	items store.ItemStore,
	gate Authorizer,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (DeckService, error) {
	switch {
	case db == nil:
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	case decks == nil:
		return nil, domain.NewValidationError("decks", "cannot be nil", domain.ErrValidation)
	case items == nil:
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	case gate == nil:
		return nil, domain.NewValidationError("gate", "cannot be nil", domain.ErrValidation)
	case emitter == nil:
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		db:      db,
		decks:   decks,
		items:   items,
		gate:    gate,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "deck_service")),
	}, nil
}

// emit publishes an event after a committed change. Handler failures are
// logged and never fail the request.
func (s *deckServiceImpl) emit(ctx context.Context, event *events.DeckEvent) {
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("deck event handler failed",
			slog.String("event_type", string(event.Type)),
			slog.String("error", err.Error()))
	}
}

// CreateDeck implements DeckService.
func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	ownerID uuid.UUID,
	title string,
	description *string,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(ownerID, title, description)
	if err != nil {
		return nil, err
	}

	if err := s.decks.Create(ctx, deck); err != nil {
		log.Error("failed to create deck", slog.String("error", err.Error()))
		return nil, NewDeckServiceError("create_deck", "failed to save deck", err)
	}

	log.Info("deck created", slog.String("deck_id", deck.ID.String()))
	s.emit(ctx, events.NewDeckEvent(events.DeckCreated, deck.ID, ownerID))
	return deck, nil
}

// GetDeck implements DeckService.
func (s *deckServiceImpl) GetDeck(ctx context.Context, ownerID, deckID uuid.UUID) (*DeckWithItems, error) {
	deck, err := s.gate.Authorize(ctx, ownerID, deckID)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListByDeck(ctx, deck.ID)
	if err != nil {
		return nil, NewDeckServiceError("get_deck", "failed to load items", err)
	}

	summary := domain.Summarize(*deck, items)
	return &DeckWithItems{
		Deck:        *deck,
		Items:       items,
		FilledCount: summary.FilledCount,
		IsComplete:  summary.IsComplete,
	}, nil
}

// ListDecks implements DeckService.
func (s *deckServiceImpl) ListDecks(ctx context.Context, ownerID uuid.UUID) ([]domain.DeckSummary, error) {
	decks, err := s.decks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, NewDeckServiceError("list_decks", "failed to load decks", err)
	}

	items, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, NewDeckServiceError("list_decks", "failed to load items", err)
	}

	byDeck := make(map[uuid.UUID][]domain.Item, len(decks))
	for _, item := range items {
		byDeck[item.DeckID] = append(byDeck[item.DeckID], item)
	}

	summaries := make([]domain.DeckSummary, 0, len(decks))
	for _, deck := range decks {
		summaries = append(summaries, domain.Summarize(deck, byDeck[deck.ID]))
	}
	return summaries, nil
}

// UpdateDeck implements DeckService.
func (s *deckServiceImpl) UpdateDeck(
	ctx context.Context,
	ownerID, deckID uuid.UUID,
	title, description *string,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.gate.Authorize(ctx, ownerID, deckID)
	if err != nil {
		return nil, err
	}

	if err := deck.ApplyUpdate(title, description); err != nil {
		return nil, err
	}

	if err := s.decks.Update(ctx, deck); err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrNotAccessible
		}
		log.Error("failed to update deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, NewDeckServiceError("update_deck", "failed to save deck", err)
	}

	s.emit(ctx, events.NewDeckEvent(events.DeckUpdated, deck.ID, ownerID))
	return deck, nil
}

// DeleteDeck implements DeckService.
func (s *deckServiceImpl) DeleteDeck(ctx context.Context, ownerID, deckID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.gate.Authorize(ctx, ownerID, deckID)
	if err != nil {
		return err
	}

	if err := s.decks.Delete(ctx, deck.ID); err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return ErrNotAccessible
		}
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return NewDeckServiceError("delete_deck", "failed to delete deck", err)
	}

	log.Info("deck deleted", slog.String("deck_id", deck.ID.String()))
	s.emit(ctx, events.NewDeckEvent(events.DeckDeleted, deck.ID, ownerID))
	return nil
}

// SaveItem implements DeckService.
func (s *deckServiceImpl) SaveItem(
	ctx context.Context,
	ownerID, deckID uuid.UUID,
	position int,
	content *string,
) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.gate.Authorize(ctx, ownerID, deckID)
	if err != nil {
		return nil, err
	}

	item, err := domain.NewItem(deck.ID, position, content)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.items.WithTx(tx).Upsert(ctx, item); err != nil {
			return err
		}
		return s.decks.WithTx(tx).Touch(ctx, deck.ID, item.UpdatedAt)
	})
	if err != nil {
		// The deck vanished between authorization and the write.
		if errors.Is(err, store.ErrDeckNotFound) || errors.Is(err, store.ErrInvalidEntity) {
			return nil, ErrNotAccessible
		}
		log.Error("failed to save item",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()),
			slog.Int("position", position))
		return nil, NewDeckServiceError("save_item", "failed to save item", err)
	}

	log.Debug("item saved",
		slog.String("deck_id", deck.ID.String()),
		slog.Int("position", position))
	s.emit(ctx, events.NewDeckEvent(events.ItemSaved, deck.ID, ownerID).WithPosition(position))
	return item, nil
}

// GetItem implements DeckService.
func (s *deckServiceImpl) GetItem(
	ctx context.Context,
	ownerID, deckID uuid.UUID,
	position int,
) (*domain.Item, error) {
	deck, err := s.gate.Authorize(ctx, ownerID, deckID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidatePosition(position); err != nil {
		return nil, err
	}

	item, err := s.items.Get(ctx, deck.ID, position)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, store.ErrItemNotFound
		}
		return nil, NewDeckServiceError("get_item", "failed to load item", err)
	}
	return item, nil
}

// ListItems implements DeckService.
func (s *deckServiceImpl) ListItems(ctx context.Context, ownerID, deckID uuid.UUID) ([]domain.Item, error) {
	deck, err := s.gate.Authorize(ctx, ownerID, deckID)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListByDeck(ctx, deck.ID)
	if err != nil {
		return nil, NewDeckServiceError("list_items", "failed to load items", err)
	}
	return items, nil
}
