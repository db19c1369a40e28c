package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/tuesdayhq/tuesday-api/internal/domain"
	"github.com/tuesdayhq/tuesday-api/internal/platform/logger"
	"github.com/tuesdayhq/tuesday-api/internal/store"
)

// UserStore implements the store.UserStore interface using a PostgreSQL
// database as the storage backend.
type UserStore struct {
	engines EngineProvider
	logger  *slog.Logger
}

// NewUserStore creates a new PostgreSQL implementation of the UserStore
// interface. The engine provider owns the underlying connection pool; the
// store borrows whatever engine is current at each operation.
func NewUserStore(engines EngineProvider, logger *slog.Logger) *UserStore {
	if engines == nil {
		panic("engines cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		engines: engines,
		logger:  logger.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create.
// It persists a new user and writes the store-assigned ID back onto the
// struct. Returns store.ErrEmailExists when the normalized email is already
// registered; the email's unique index makes the check race-free.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pool, err := s.engines.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	query := `
		INSERT INTO users (email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = pool.QueryRow(ctx, query,
		user.Email,
		user.Name,
		user.HashedPassword,
		user.CreatedAt,
	).Scan(&user.ID)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate email during user creation",
				slog.String("email", user.Email))
			return store.ErrEmailExists
		}
		return s.fail(log, "failed to create user", err)
	}

	log.Info("user created",
		slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pool, err := s.engines.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	query := `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err = pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.HashedPassword,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, s.fail(log, "failed to get user by ID", err)
	}

	return &user, nil
}

// GetByEmail implements store.UserStore.GetByEmail.
// The email is expected to be already normalized (trimmed, lowercased).
// Returns store.ErrUserNotFound if the user does not exist.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pool, err := s.engines.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	query := `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	var user domain.User
	err = pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.HashedPassword,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, s.fail(log, "failed to get user by email", err)
	}

	return &user, nil
}

// fail translates a store-level failure. Communication failures dispose the
// current engine before surfacing store.ErrUnavailable so the next request
// re-attempts host failover; everything else propagates unchanged.
func (s *UserStore) fail(log *slog.Logger, msg string, err error) error {
	if IsCommunicationError(err) {
		s.engines.Dispose()
		log.Error(msg, slog.String("error", err.Error()), slog.Bool("disposed", true))
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	log.Error(msg, slog.String("error", err.Error()))
	return err
}
