package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
	"github.com/phrazzld/inception-api/internal/platform/logger"
	"github.com/phrazzld/inception-api/internal/store"
)

const decksTable = "decks"

var deckColumns = []string{"id", "owner_id", "title", "description", "created_at", "updated_at"}

// DeckStore implements store.DeckStore.
type DeckStore struct {
	db      store.DBTX
	dialect Dialect
	sb      squirrel.StatementBuilderType
}

var _ store.DeckStore = (*DeckStore)(nil)

// NewDeckStore creates a DeckStore that runs queries on db.
func NewDeckStore(db store.DBTX, d Dialect) *DeckStore {
	return &DeckStore{db: db, dialect: d, sb: d.builder()}
}

// WithTx implements store.DeckStore.
func (s *DeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return NewDeckStore(tx, s.dialect)
}

func scanDeck(row rowScanner) (*domain.Deck, error) {
	var (
		deck        domain.Deck
		description sql.NullString
	)
	if err := row.Scan(
		&deck.ID,
		&deck.OwnerID,
		&deck.Title,
		&description,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	); err != nil {
		return nil, err
	}
	deck.Description = nullableString(description)
	deck.CreatedAt = deck.CreatedAt.UTC()
	deck.UpdatedAt = deck.UpdatedAt.UTC()
	return &deck, nil
}

// Create implements store.DeckStore.
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContext(ctx)

	if err := deck.Validate(); err != nil {
		return err
	}

	query, args, err := s.sb.Insert(decksTable).
		Columns(deckColumns...).
		Values(deck.ID, deck.OwnerID, deck.Title, deck.Description, deck.CreatedAt, deck.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deck insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert deck", "error", err, "deck_id", deck.ID)
		return store.NewStoreError("deck", "create", "failed to insert deck", MapError(err))
	}

	log.Debug("deck created", "deck_id", deck.ID, "owner_id", deck.OwnerID)
	return nil
}

func (s *DeckStore) getOne(ctx context.Context, where squirrel.Sqlizer) (*domain.Deck, error) {
	query, args, err := s.sb.Select(deckColumns...).From(decksTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build deck select: %w", err)
	}

	deck, err := scanDeck(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		return nil, store.NewStoreError("deck", "get", "failed to load deck", MapError(err))
	}
	return deck, nil
}

// GetByID implements store.DeckStore.
func (s *DeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	return s.getOne(ctx, squirrel.Eq{"id": id})
}

// GetOwned implements store.DeckStore.
func (s *DeckStore) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Deck, error) {
	return s.getOne(ctx, squirrel.Eq{"id": id, "owner_id": ownerID})
}

// ListByOwner implements store.DeckStore.
func (s *DeckStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Deck, error) {
	query, args, err := s.sb.Select(deckColumns...).
		From(decksTable).
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("updated_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build deck list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("deck", "list", "failed to query decks", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	decks := []domain.Deck{}
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, store.NewStoreError("deck", "list", "failed to scan deck", MapError(err))
		}
		decks = append(decks, *deck)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("deck", "list", "failed to iterate decks", MapError(err))
	}
	return decks, nil
}

// Update implements store.DeckStore.
func (s *DeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return err
	}

	query, args, err := s.sb.Update(decksTable).
		Set("title", deck.Title).
		Set("description", deck.Description).
		Set("updated_at", deck.UpdatedAt).
		Where(squirrel.Eq{"id": deck.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deck update: %w", err)
	}

	return s.execOne(ctx, "update", query, args)
}

// Touch implements store.DeckStore.
func (s *DeckStore) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	query, args, err := s.sb.Update(decksTable).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deck touch: %w", err)
	}

	return s.execOne(ctx, "touch", query, args)
}

// Delete implements store.DeckStore.
func (s *DeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := s.sb.Delete(decksTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build deck delete: %w", err)
	}

	return s.execOne(ctx, "delete", query, args)
}

// execOne runs a statement expected to affect exactly one deck row.
func (s *DeckStore) execOne(ctx context.Context, op, query string, args []any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Error("deck statement failed", "operation", op, "error", err)
		return store.NewStoreError("deck", op, "statement failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrDeckNotFound)
}
