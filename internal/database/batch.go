package database

import (
	"context"
	"database/sql"
	"fmt"

	sqldb "github.com/ziprune/ziprune/internal/database/sqlc"
)

// FileBatch upserts files inside a transaction that is committed every size
// writes. Nothing else may use the connection while a batch is open.
type FileBatch struct {
	dbCtx   *Context
	size    int
	tx      *sql.Tx
	queries *sqldb.Queries
	pending int
	onFlush func(committed int)
}

// NewFileBatch prepares a batch writer. onFlush, when set, is called after each commit.
func NewFileBatch(dbCtx *Context, size int, onFlush func(committed int)) (*FileBatch, error) {
	if dbCtx == nil || dbCtx.DB == nil {
		return nil, fmt.Errorf("file batch: %w", errMissingContext)
	}
	if size <= 0 {
		return nil, fmt.Errorf("file batch: size must be positive, got %d", size)
	}
	return &FileBatch{dbCtx: dbCtx, size: size, onFlush: onFlush}, nil
}

// Upsert stages one file and commits when the batch is full.
func (b *FileBatch) Upsert(ctx context.Context, record FileRecord) error {
	// Cancelling ctx must not roll back writes already staged in this batch.
	ctx = context.WithoutCancel(ctx)
	if b.tx == nil {
		tx, err := b.dbCtx.DB.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin batch: %w", err)
		}
		b.tx = tx
		b.queries = sqldb.New(tx)
	}

	if _, err := upsertFile(ctx, b.queries, record); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", record.Path, err)
	}
	b.pending++

	if b.pending >= b.size {
		return b.Flush()
	}
	return nil
}

// Flush commits staged writes. It is safe to call with nothing pending.
func (b *FileBatch) Flush() error {
	if b.tx == nil {
		return nil
	}
	committed := b.pending
	err := b.tx.Commit()
	b.tx = nil
	b.queries = nil
	b.pending = 0
	if err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	if b.onFlush != nil {
		b.onFlush(committed)
	}
	return nil
}

// Rollback discards staged writes.
func (b *FileBatch) Rollback() {
	if b.tx == nil {
		return
	}
	_ = b.tx.Rollback()
	b.tx = nil
	b.queries = nil
	b.pending = 0
}

// Pending returns the number of staged, uncommitted writes.
func (b *FileBatch) Pending() int {
	return b.pending
}
