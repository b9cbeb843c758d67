package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// snapshotOpts gives multi-table reads one consistent view of the dictionary.
var snapshotOpts = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// TxManager runs repository calls inside a transaction carried by the
// context; QuerierFromCtx picks it up. Nested calls are not supported: an
// inner call starts a second, independent transaction.
type TxManager struct {
	db DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTx executes fn in a read-write transaction. It commits when fn
// returns nil and rolls back otherwise. A panic in fn rolls back and is
// re-raised.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	return runTx(ctx, tx, fn)
}

// RunInSnapshot executes fn in a read-only repeatable-read transaction, so
// every query in fn sees the same committed state.
func (m *TxManager) RunInSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, snapshotOpts)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	return runTx(ctx, tx, fn)
}

func runTx(ctx context.Context, tx pgx.Tx, fn func(ctx context.Context) error) error {
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback: %w (after: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
