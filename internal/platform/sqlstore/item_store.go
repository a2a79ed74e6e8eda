package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
	"github.com/phrazzld/inception-api/internal/platform/logger"
	"github.com/phrazzld/inception-api/internal/store"
)

const itemsTable = "deck_items"

var itemColumns = []string{"id", "deck_id", "position", "content", "created_at", "updated_at"}

// Keeps id and created_at of an existing row; only content and the
// modification time are replaced.
const upsertItemSuffix = "ON CONFLICT (deck_id, position) DO UPDATE SET " +
	"content = excluded.content, updated_at = excluded.updated_at"

// ItemStore implements store.ItemStore.
type ItemStore struct {
	db      store.DBTX
	dialect Dialect
	sb      squirrel.StatementBuilderType
}

var _ store.ItemStore = (*ItemStore)(nil)

// NewItemStore creates an ItemStore that runs queries on db.
func NewItemStore(db store.DBTX, d Dialect) *ItemStore {
	return &ItemStore{db: db, dialect: d, sb: d.builder()}
}

// WithTx implements store.ItemStore.
func (s *ItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return NewItemStore(tx, s.dialect)
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var (
		item    domain.Item
		content sql.NullString
	)
	if err := row.Scan(
		&item.ID,
		&item.DeckID,
		&item.Position,
		&content,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	item.Content = nullableString(content)
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return &item, nil
}

// Upsert implements store.ItemStore.
func (s *ItemStore) Upsert(ctx context.Context, item *domain.Item) error {
	if err := domain.ValidatePosition(item.Position); err != nil {
		return err
	}

	query, args, err := s.sb.Insert(itemsTable).
		Columns(itemColumns...).
		Values(item.ID, item.DeckID, item.Position, item.Content, item.CreatedAt, item.UpdatedAt).
		Suffix(upsertItemSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("build item upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Error("failed to upsert item",
			"error", err,
			"deck_id", item.DeckID,
			"position", item.Position,
		)
		return store.NewStoreError("item", "upsert", "failed to write item", MapError(err))
	}

	stored, err := s.Get(ctx, item.DeckID, item.Position)
	if err != nil {
		return err
	}
	*item = *stored
	return nil
}

// Get implements store.ItemStore.
func (s *ItemStore) Get(ctx context.Context, deckID uuid.UUID, position int) (*domain.Item, error) {
	query, args, err := s.sb.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"deck_id": deckID, "position": position}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item select: %w", err)
	}

	item, err := scanItem(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrItemNotFound
		}
		return nil, store.NewStoreError("item", "get", "failed to load item", MapError(err))
	}
	return item, nil
}

// ListByDeck implements store.ItemStore.
func (s *ItemStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]domain.Item, error) {
	query, args, err := s.sb.Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"deck_id": deckID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item list: %w", err)
	}
	return s.list(ctx, query, args)
}

// ListByOwner implements store.ItemStore.
func (s *ItemStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Item, error) {
	query, args, err := s.sb.Select(qualify("i", itemColumns)...).
		From(itemsTable + " i").
		Join(decksTable + " d ON d.id = i.deck_id").
		Where(squirrel.Eq{"d.owner_id": ownerID}).
		OrderBy("i.deck_id", "i.position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build owner item list: %w", err)
	}
	return s.list(ctx, query, args)
}

func (s *ItemStore) list(ctx context.Context, query string, args []any) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("item", "list", "failed to query items", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	items := []domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, store.NewStoreError("item", "list", "failed to scan item", MapError(err))
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("item", "list", "failed to iterate items", MapError(err))
	}
	return items, nil
}
