package postgresql

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return database.New(mock), mock
}

// ===== TRANSACTION TESTS =====

func TestWithTransaction_Commit(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := WithTransaction(context.Background(), db, func(txCtx context.Context) error {
		_, ok := txFromContext(txCtx)
		assert.True(t, ok, "transaction not injected into context")
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	want := errors.New("boom")
	err := WithTransaction(context.Background(), db, func(context.Context) error {
		return want
	})

	assert.ErrorIs(t, err, want)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_NestedJoinsOuter(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := WithTransaction(context.Background(), db, func(outer context.Context) error {
		return WithTransaction(outer, db, func(inner context.Context) error {
			assert.Equal(t, outer, inner)
			return nil
		})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ===== BATCH HELPER TESTS =====

func TestValuesList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "($1, $2, $3)", valuesList(1, 3))
	assert.Equal(t, "($1, $2), ($3, $4), ($5, $6)", valuesList(3, 2))
	assert.Equal(t, "", valuesList(0, 4))
}
