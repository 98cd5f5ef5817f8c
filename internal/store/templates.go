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

// TemplateStore defines the interface for layout template persistence.
type TemplateStore interface {
	Create(ctx context.Context, t *domain.LayoutTemplate) error
	GetByRendererID(ctx context.Context, rendererID string) (*domain.LayoutTemplate, error)
	List(ctx context.Context) ([]*domain.LayoutTemplate, error)
}

// SQLiteTemplateStore implements TemplateStore backed by SQLite.
type SQLiteTemplateStore struct {
	db Querier
}

// NewSQLiteTemplateStore creates a new SQLiteTemplateStore.
func NewSQLiteTemplateStore(db Querier) *SQLiteTemplateStore {
	return &SQLiteTemplateStore{db: db}
}

// Create inserts t with a fresh ID and the current time for both
// timestamps. A second template with the same renderer ID yields
// ErrConflict.
func (s *SQLiteTemplateStore) Create(ctx context.Context, t *domain.LayoutTemplate) error {
	t.ID = id.New()
	ts := now()
	t.CreatedAt, t.UpdatedAt = ts, ts
	if t.Tags == nil {
		t.Tags = []string{}
	}

	tags, err := json.Marshal(t.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO layout_templates (id, renderer_id, title, description, thumbnail, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.RendererID, t.Title, t.Description, nullString(t.Thumbnail), string(tags), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("template %q: %w", t.RendererID, ErrConflict)
		}
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// GetByRendererID looks a template up by its natural key.
func (s *SQLiteTemplateStore) GetByRendererID(ctx context.Context, rendererID string) (*domain.LayoutTemplate, error) {
	t, err := scanTemplate(s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM layout_templates WHERE renderer_id = ?`, rendererID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// List returns all templates ordered by renderer ID.
func (s *SQLiteTemplateStore) List(ctx context.Context) ([]*domain.LayoutTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM layout_templates ORDER BY renderer_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.LayoutTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

const templateColumns = `id, renderer_id, title, description, thumbnail, tags, created_at, updated_at`

func scanTemplate(r rowScanner) (*domain.LayoutTemplate, error) {
	var t domain.LayoutTemplate
	var thumb, tags sql.NullString
	if err := r.Scan(&t.ID, &t.RendererID, &t.Title, &t.Description, &thumb, &tags, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Thumbnail = thumb.String
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &t.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &t, nil
}
