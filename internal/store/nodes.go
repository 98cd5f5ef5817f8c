package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/johnwards/aethertool/internal/domain"
	"github.com/johnwards/aethertool/internal/id"
)

// NodeStore defines the interface for document node persistence.
type NodeStore interface {
	Create(ctx context.Context, n *domain.Node) error
	Get(ctx context.Context, nodeID id.ID) (*domain.Node, error)
	Delete(ctx context.Context, nodeID id.ID) (bool, error)
	ListByKnowledgeBase(ctx context.Context, kbID id.ID) ([]*domain.Node, error)
}

// SQLiteNodeStore implements NodeStore backed by SQLite.
type SQLiteNodeStore struct {
	db Querier
}

// NewSQLiteNodeStore creates a new SQLiteNodeStore.
func NewSQLiteNodeStore(db Querier) *SQLiteNodeStore {
	return &SQLiteNodeStore{db: db}
}

// Create inserts n, filling in a fresh ID and timestamps when unset.
func (s *SQLiteNodeStore) Create(ctx context.Context, n *domain.Node) error {
	if n.ID.IsNil() {
		n.ID = id.New()
	}
	if n.CreatedAt == "" {
		n.CreatedAt = now()
	}
	if n.UpdatedAt == "" {
		n.UpdatedAt = n.CreatedAt
	}

	var parent any
	if n.ParentID != nil {
		parent = *n.ParentID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO nodes (id, parent_id, author_id, knowledge_base_id, type, title, permission_mode, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, parent, n.AuthorID, n.KnowledgeBaseID, n.Type, n.Title, n.PermissionMode, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("node %s: %w", n.ID, ErrConflict)
		}
		return fmt.Errorf("insert node: %w", err)
	}
	return nil
}

// Get retrieves a node by ID.
func (s *SQLiteNodeStore) Get(ctx context.Context, nodeID id.ID) (*domain.Node, error) {
	n, err := scanNode(s.db.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, nodeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get node: %w", err)
	}
	return n, nil
}

// Delete removes a node. Its blocks go with it through the foreign key.
func (s *SQLiteNodeStore) Delete(ctx context.Context, nodeID id.ID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, nodeID)
	if err != nil {
		return false, fmt.Errorf("delete node: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListByKnowledgeBase returns the nodes of a knowledge base in creation order.
func (s *SQLiteNodeStore) ListByKnowledgeBase(ctx context.Context, kbID id.ID) ([]*domain.Node, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes WHERE knowledge_base_id = ? ORDER BY created_at ASC, rowid ASC`, kbID)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

const nodeColumns = `id, parent_id, author_id, knowledge_base_id, type, title, permission_mode, created_at, updated_at`

func scanNode(r rowScanner) (*domain.Node, error) {
	var n domain.Node
	var parent, kb []byte
	if err := r.Scan(&n.ID, &parent, &n.AuthorID, &kb, &n.Type, &n.Title, &n.PermissionMode, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	if parent != nil {
		var p id.ID
		if err := p.Scan(parent); err != nil {
			return nil, err
		}
		n.ParentID = &p
	}
	if kb != nil {
		if err := n.KnowledgeBaseID.Scan(kb); err != nil {
			return nil, err
		}
	}
	return &n, nil
}
