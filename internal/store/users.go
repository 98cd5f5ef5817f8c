package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/johnwards/aethertool/internal/domain"
	"github.com/johnwards/aethertool/internal/id"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*domain.User, error)
	Get(ctx context.Context, userID id.ID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// SQLiteUserStore implements UserStore backed by SQLite.
type SQLiteUserStore struct {
	db Querier
}

// NewSQLiteUserStore creates a new SQLiteUserStore.
func NewSQLiteUserStore(db Querier) *SQLiteUserStore {
	return &SQLiteUserStore{db: db}
}

// Create inserts a new user with a fresh ID.
func (s *SQLiteUserStore) Create(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	ts := now()
	u := &domain.User{
		ID:           id.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %q: %w", username, ErrConflict)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Get retrieves a user by ID.
func (s *SQLiteUserStore) Get(ctx context.Context, userID id.ID) (*domain.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE id = ?`,
		userID,
	))
}

// GetByUsername retrieves a user by username.
func (s *SQLiteUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE username = ?`,
		username,
	))
}

func (s *SQLiteUserStore) scanOne(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
