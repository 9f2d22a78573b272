package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	DBExecutor
}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

type fakeDB struct {
	DBExecutor
}

func TestGetExecutor(t *testing.T) {
	db := &fakeDB{}
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, db, GetExecutor(ctx, db).(*fakeDB))

	tx := &fakeTx{}
	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, db).(*fakeTx))
}

func TestWithTx_NilIsNotATransaction(t *testing.T) {
	ctx := WithTx(context.Background(), nil)
	assert.False(t, IsInTransaction(ctx))
}

var _ DBExecutor = (*sql.DB)(nil)
var _ DBExecutor = (*DB)(nil)
var _ TxBeginner = (*DB)(nil)
var _ TxExecutor = (*SqlTxWrapper)(nil)
