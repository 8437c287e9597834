package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/dkomnin/SBS-BookingService/pkg/dbmetrics"
)

type fakeTx struct {
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	begins   int
	beginErr error
	tx       func() *fakeTx
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begins++
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx(), nil
}

func TestDoSerializable_Success(t *testing.T) {
	db := &fakeBeginner{tx: func() *fakeTx { return &fakeTx{} }}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 1, db.begins)
	require.Equal(t, 1, calls)
}

func TestDoSerializable_RetriesOnSerializationFailureInFn(t *testing.T) {
	db := &fakeBeginner{tx: func() *fakeTx { return &fakeTx{} }}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &pq.Error{Code: "40001"}
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, db.begins)
}

func TestDoSerializable_RetriesOnSerializationFailureAtCommit(t *testing.T) {
	// В SERIALIZABLE конфликт часто всплывает только на COMMIT:
	// он должен распознаваться и повторяться так же, как ошибка из fn
	db := &fakeBeginner{tx: func() *fakeTx {
		return &fakeTx{commitErr: &pq.Error{Code: "40001"}}
	}}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.ErrorIs(t, err, ErrRetriesExhausted)
	require.Equal(t, maxRetries, db.begins)
}

func TestDoSerializable_CommitErrorWithoutConflictIsNotRetried(t *testing.T) {
	db := &fakeBeginner{tx: func() *fakeTx {
		return &fakeTx{commitErr: errors.New("connection reset")}
	}}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.ErrorIs(t, err, ErrTxCommit)
	require.Equal(t, 1, db.begins)
}

func TestDoSerializable_NonRetryableErrorRollsBack(t *testing.T) {
	var tx *fakeTx
	db := &fakeBeginner{tx: func() *fakeTx {
		tx = &fakeTx{}
		return tx
	}}
	m := NewTransactionManager(db)

	boom := errors.New("boom")
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, db.begins)
	require.True(t, tx.rolledBack)
	require.False(t, tx.committed)
}

func TestDoSerializable_BeginError(t *testing.T) {
	db := &fakeBeginner{beginErr: errors.New("down")}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.ErrorIs(t, err, ErrTxBegin)
	require.Equal(t, 1, db.begins)
}
