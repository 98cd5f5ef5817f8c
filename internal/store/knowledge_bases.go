package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/johnwards/aethertool/internal/domain"
	"github.com/johnwards/aethertool/internal/id"
)

// KnowledgeBaseStore defines the interface for knowledge base persistence.
type KnowledgeBaseStore interface {
	Create(ctx context.Context, kb *domain.KnowledgeBase) error
	Get(ctx context.Context, kbID id.ID) (*domain.KnowledgeBase, error)
	GetByRendererID(ctx context.Context, rendererID string) (*domain.KnowledgeBase, error)
	Delete(ctx context.Context, kbID id.ID) (bool, error)
}

// SQLiteKnowledgeBaseStore implements KnowledgeBaseStore backed by SQLite.
type SQLiteKnowledgeBaseStore struct {
	db Querier
}

// NewSQLiteKnowledgeBaseStore creates a new SQLiteKnowledgeBaseStore.
func NewSQLiteKnowledgeBaseStore(db Querier) *SQLiteKnowledgeBaseStore {
	return &SQLiteKnowledgeBaseStore{db: db}
}

// Create inserts kb. A nil ID is replaced with a fresh one and empty
// timestamps are stamped with the current time; kb is updated in place.
func (s *SQLiteKnowledgeBaseStore) Create(ctx context.Context, kb *domain.KnowledgeBase) error {
	if kb.ID.IsNil() {
		kb.ID = id.New()
	}
	if kb.CreatedAt == "" {
		kb.CreatedAt = now()
	}
	if kb.UpdatedAt == "" {
		kb.UpdatedAt = kb.CreatedAt
	}
	if kb.Tags == nil {
		kb.Tags = []string{}
	}
	if _, err := domain.ParseVisibility(string(kb.Visibility)); err != nil {
		return err
	}

	tags, err := json.Marshal(kb.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO knowledge_bases (id, author_id, title, description, tags, cover_offset_y, renderer_id, visibility, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		kb.ID, kb.AuthorID, kb.Title, nullString(kb.Description), string(tags), kb.CoverOffsetY,
		nullString(kb.RendererID), string(kb.Visibility), kb.CreatedAt, kb.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("knowledge base %s: %w", kb.ID, ErrConflict)
		}
		return fmt.Errorf("insert knowledge base: %w", err)
	}
	return nil
}

// Get retrieves a knowledge base by ID.
func (s *SQLiteKnowledgeBaseStore) Get(ctx context.Context, kbID id.ID) (*domain.KnowledgeBase, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+kbColumns+` FROM knowledge_bases WHERE id = ?`, kbID)
	kb, err := scanKnowledgeBase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get knowledge base: %w", err)
	}
	return kb, nil
}

// GetByRendererID returns the oldest knowledge base bound to rendererID.
func (s *SQLiteKnowledgeBaseStore) GetByRendererID(ctx context.Context, rendererID string) (*domain.KnowledgeBase, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+kbColumns+` FROM knowledge_bases WHERE renderer_id = ? ORDER BY created_at ASC LIMIT 1`, rendererID)
	kb, err := scanKnowledgeBase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get knowledge base by renderer: %w", err)
	}
	return kb, nil
}

// Delete removes the knowledge base with the given ID. It reports whether a
// row was removed.
func (s *SQLiteKnowledgeBaseStore) Delete(ctx context.Context, kbID id.ID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM knowledge_bases WHERE id = ?`, kbID)
	if err != nil {
		return false, fmt.Errorf("delete knowledge base: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

const kbColumns = `id, author_id, title, description, tags, cover_offset_y, renderer_id, visibility, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanKnowledgeBase(r rowScanner) (*domain.KnowledgeBase, error) {
	var kb domain.KnowledgeBase
	var desc, renderer sql.NullString
	var tags, visibility string
	if err := r.Scan(&kb.ID, &kb.AuthorID, &kb.Title, &desc, &tags, &kb.CoverOffsetY,
		&renderer, &visibility, &kb.CreatedAt, &kb.UpdatedAt); err != nil {
		return nil, err
	}
	kb.Description = desc.String
	kb.RendererID = renderer.String
	kb.Visibility = domain.Visibility(visibility)
	if err := json.Unmarshal([]byte(tags), &kb.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return &kb, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
