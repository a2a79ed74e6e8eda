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
	"golang.org/x/crypto/bcrypt"
)

const usersTable = "users"

var userColumns = []string{"id", "email", "name", "hashed_password", "created_at", "updated_at"}

// UserStore implements store.UserStore.
type UserStore struct {
	db         store.DBTX
	dialect    Dialect
	sb         squirrel.StatementBuilderType
	bcryptCost int
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates a UserStore. bcryptCost is clamped to bcrypt's
// allowed range.
func NewUserStore(db store.DBTX, d Dialect, bcryptCost int) *UserStore {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.MinCost
	}
	if bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.MaxCost
	}
	return &UserStore{db: db, dialect: d, sb: d.builder(), bcryptCost: bcryptCost}
}

// WithTx implements store.UserStore.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return NewUserStore(tx, s.dialect, s.bcryptCost)
}

// Create implements store.UserStore.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		return err
	}

	if user.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = string(hash)
		user.Password = ""
	}

	query, args, err := s.sb.Insert(usersTable).
		Columns(userColumns...).
		Values(user.ID, user.Email, user.Name, user.HashedPassword, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build user insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if IsUniqueViolation(err) {
			log.Warn("email already registered", "user_id", user.ID)
			return store.ErrEmailExists
		}
		log.Error("failed to insert user", "error", err, "user_id", user.ID)
		return store.NewStoreError("user", "create", "failed to insert user", MapError(err))
	}

	log.Info("user created", "user_id", user.ID)
	return nil
}

func (s *UserStore) getOne(ctx context.Context, where squirrel.Sqlizer) (*domain.User, error) {
	query, args, err := s.sb.Select(userColumns...).From(usersTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user select: %w", err)
	}

	var (
		user domain.User
		name sql.NullString
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&name,
		&user.HashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.NewStoreError("user", "get", "failed to load user", MapError(err))
	}
	user.Name = nullableString(name)
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

// GetByID implements store.UserStore.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail implements store.UserStore.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, squirrel.Eq{"email": email})
}
