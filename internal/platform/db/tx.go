package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TxManager wraps a unit of work in an explicit transaction. Settlement and
// rate insertion require the serializable variant; everything else uses the
// default isolation level.
type TxManager struct {
	pool txStarter
}

func NewTxManager(pool txStarter) *TxManager {
	return &TxManager{pool: pool}
}

func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return m.withTx(ctx, pgx.TxOptions{}, fn)
}

func (m *TxManager) WithSerializableTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return m.withTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
}

func (m *TxManager) withTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}
