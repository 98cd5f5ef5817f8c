package store

import (
	"context"
	"database/sql"
)

// Querier is the subset of *sql.DB and *sql.Tx the stores need, so the
// same store code runs inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store holds all sub-stores used by the tooling.
type Store struct {
	Users          UserStore
	KnowledgeBases KnowledgeBaseStore
	Nodes          NodeStore
	Blocks         BlockStore
	Templates      TemplateStore
}

// New creates a Store with all sub-stores bound to q.
func New(q Querier) *Store {
	return &Store{
		Users:          NewSQLiteUserStore(q),
		KnowledgeBases: NewSQLiteKnowledgeBaseStore(q),
		Nodes:          NewSQLiteNodeStore(q),
		Blocks:         NewSQLiteBlockStore(q),
		Templates:      NewSQLiteTemplateStore(q),
	}
}

// WithTx runs fn with a Store bound to a new transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(*Store) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(New(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
