package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	commitErr  error
	committed  bool
	rolledBack bool
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
	txs        []*fakeTx
	commitErrs []error
	opts       []*sql.TxOptions
	beginErr   error
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	tx := &fakeTx{}
	if len(b.commitErrs) > 0 {
		tx.commitErr = b.commitErrs[0]
		b.commitErrs = b.commitErrs[1:]
	}
	b.txs = append(b.txs, tx)
	b.opts = append(b.opts, opts)
	return tx, nil
}

func TestManager_Do_Commits(t *testing.T) {
	b := &fakeBeginner{}
	m := NewTransactionManager(b)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	require.Len(t, b.txs, 1)
	assert.True(t, b.txs[0].committed)
	assert.False(t, b.txs[0].rolledBack)
}

func TestManager_Do_RollsBackOnError(t *testing.T) {
	b := &fakeBeginner{}
	m := NewTransactionManager(b)
	boom := errors.New("boom")

	err := m.Do(context.Background(), func(context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.True(t, b.txs[0].rolledBack)
	assert.False(t, b.txs[0].committed)
}

func TestManager_Do_RollsBackOnPanic(t *testing.T) {
	b := &fakeBeginner{}
	m := NewTransactionManager(b)

	assert.Panics(t, func() {
		_ = m.Do(context.Background(), func(context.Context) error { panic("oops") })
	})
	assert.True(t, b.txs[0].rolledBack)
}

func TestManager_NestedCallReusesTransaction(t *testing.T) {
	b := &fakeBeginner{}
	m := NewTransactionManager(b)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Len(t, b.txs, 1)
}

func TestManager_DoSerializable_RetriesOnSerializationFailure(t *testing.T) {
	conflict := &pq.Error{Code: "40001"}
	b := &fakeBeginner{commitErrs: []error{conflict, conflict}}
	m := NewTransactionManager(b)

	calls := 0
	err := m.DoSerializable(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, sql.LevelSerializable, b.opts[0].Isolation)
}

func TestManager_DoSerializable_GivesUp(t *testing.T) {
	conflict := &pq.Error{Code: "40001"}
	b := &fakeBeginner{commitErrs: []error{conflict, conflict, conflict, conflict}}
	m := NewTransactionManager(b)

	err := m.DoSerializable(context.Background(), func(context.Context) error { return nil })

	assert.True(t, IsSerializationFailure(err))
	assert.Len(t, b.txs, DefaultSerializableRetries+1)
}

func TestManager_BeginError(t *testing.T) {
	m := NewTransactionManager(&fakeBeginner{beginErr: errors.New("no conn")})

	err := m.DoReadOnly(context.Background(), func(context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrBeginTx)
}
