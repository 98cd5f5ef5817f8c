package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/johnwards/aethertool/internal/domain"
	"github.com/johnwards/aethertool/internal/id"
)

// BlockStore defines the interface for content block persistence.
type BlockStore interface {
	Create(ctx context.Context, b *domain.Block) error
	Get(ctx context.Context, blockID id.ID) (*domain.Block, error)
	ListByDocument(ctx context.Context, documentID id.ID) ([]*domain.Block, error)
	DeleteByDocument(ctx context.Context, documentID id.ID) (int64, error)
}

// SQLiteBlockStore implements BlockStore backed by SQLite.
type SQLiteBlockStore struct {
	db Querier
}

// NewSQLiteBlockStore creates a new SQLiteBlockStore.
func NewSQLiteBlockStore(db Querier) *SQLiteBlockStore {
	return &SQLiteBlockStore{db: db}
}

// Create inserts b. The caller owns b.ID so that other payloads can embed
// it before the row exists; a nil ID is still replaced with a fresh one.
func (s *SQLiteBlockStore) Create(ctx context.Context, b *domain.Block) error {
	if b.ID.IsNil() {
		b.ID = id.New()
	}
	if b.Revision == 0 {
		b.Revision = 1
	}
	if b.CreatedAt == "" {
		b.CreatedAt = now()
	}
	if b.UpdatedAt == "" {
		b.UpdatedAt = b.CreatedAt
	}
	if len(b.Payload) == 0 {
		b.Payload = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blocks (id, document_id, type, ordinal, revision, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.DocumentID, string(b.Type), b.Ordinal, b.Revision, string(b.Payload), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("block %s ordinal %d: %w", b.ID, b.Ordinal, ErrConflict)
		}
		return fmt.Errorf("insert block: %w", err)
	}
	return nil
}

// Get retrieves a block by ID.
func (s *SQLiteBlockStore) Get(ctx context.Context, blockID id.ID) (*domain.Block, error) {
	b, err := scanBlock(s.db.QueryRowContext(ctx, `SELECT `+blockColumns+` FROM blocks WHERE id = ?`, blockID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get block: %w", err)
	}
	return b, nil
}

// ListByDocument returns a document's blocks in reading (ordinal) order.
func (s *SQLiteBlockStore) ListByDocument(ctx context.Context, documentID id.ID) ([]*domain.Block, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+blockColumns+` FROM blocks WHERE document_id = ? ORDER BY ordinal ASC`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// DeleteByDocument removes every block of a document and returns how many
// rows went.
func (s *SQLiteBlockStore) DeleteByDocument(ctx context.Context, documentID id.ID) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blocks WHERE document_id = ?`, documentID)
	if err != nil {
		return 0, fmt.Errorf("delete blocks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

const blockColumns = `id, document_id, type, ordinal, revision, payload, created_at, updated_at`

func scanBlock(r rowScanner) (*domain.Block, error) {
	var b domain.Block
	var typ, payload string
	if err := r.Scan(&b.ID, &b.DocumentID, &typ, &b.Ordinal, &b.Revision, &payload, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Type = domain.BlockType(typ)
	b.Payload = []byte(payload)
	return &b, nil
}
