// AngelaMos | 2026
// tx_test.go

package core

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockTx(t *testing.T) (*TxManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewTxManager(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRunCommitsThroughSavepoint(t *testing.T) {
	manager, mock := newMockTx(t)

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE accounts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("RELEASE SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := manager.Run(context.Background(), func(tx *sqlx.Tx) error {
		_, execErr := tx.ExecContext(
			context.Background(),
			"UPDATE accounts SET updated_at = NOW()",
		)
		return execErr
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRollsBackSavepointAndTransaction(t *testing.T) {
	manager, mock := newMockTx(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := manager.Run(context.Background(), func(tx *sqlx.Tx) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunNestedOnlyUnwindsToSavepoint(t *testing.T) {
	manager, mock := newMockTx(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	db := manager.db
	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	err = manager.RunNested(context.Background(), tx, func(tx *sqlx.Tx) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// The caller still owns the transaction and may commit the rest.
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafeDeleteFallsBackToDirectDelete(t *testing.T) {
	manager, mock := newMockTx(t)

	// Entity delete path fails.
	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// Direct row delete succeeds.
	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM exercises WHERE id = \\$1").
		WithArgs("ex-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("RELEASE SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok := manager.SafeDelete(
		context.Background(),
		func(tx *sqlx.Tx) error {
			return errors.New("relationship delete failed")
		},
		"exercises", "id", "ex-1",
	)

	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafeDeleteBothPathsFail(t *testing.T) {
	manager, mock := newMockTx(t)

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM exercises WHERE id = \\$1").
		WithArgs("ex-1").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	ok := manager.SafeDelete(
		context.Background(),
		func(tx *sqlx.Tx) error {
			return errors.New("relationship delete failed")
		},
		"exercises", "id", "ex-1",
	)

	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafeArchiveSetsFlag(t *testing.T) {
	manager, mock := newMockTx(t)

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE exercises SET is_archived = true WHERE id = \\$1").
		WithArgs("ex-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("RELEASE SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.True(t, manager.SafeArchive(context.Background(), "exercises", "ex-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafeArchiveUnknownTable(t *testing.T) {
	manager, mock := newMockTx(t)

	// No SQL at all: unknown targets fail before touching the database.
	assert.False(t, manager.SafeArchive(context.Background(), "accounts", "id-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafeArchiveMissingRow(t *testing.T) {
	manager, mock := newMockTx(t)

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE challenges SET is_archived = true WHERE id = \\$1").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.False(t, manager.SafeArchive(context.Background(), "challenges", "missing"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
