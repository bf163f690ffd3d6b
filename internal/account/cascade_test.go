// AngelaMos | 2026
// cascade_test.go

package account

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyclope0/mathakine-sub004/internal/core"
)

func newMockCoordinator(t *testing.T) (*Coordinator, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewCoordinator(core.NewTxManager(sqlx.NewDb(db, "sqlmock"))), mock
}

func expectSavepointOpen(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func expectCreatedExerciseChildDeletes(mock sqlmock.Sqlmock, accountID string) {
	for range []string{"exercise_attempts", "recommendations"} {
		mock.ExpectExec("DELETE FROM .* WHERE exercise_id IN").
			WithArgs(accountID).
			WillReturnResult(sqlmock.NewResult(0, 2))
	}
}

func expectDependentDeletes(mock sqlmock.Sqlmock, accountID string) {
	for range dependents {
		mock.ExpectExec("DELETE FROM").
			WithArgs(accountID).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	coordinator, mock := newMockCoordinator(t)
	accountID := "acc-1"

	expectSavepointOpen(mock)
	expectCreatedExerciseChildDeletes(mock, accountID)
	expectDependentDeletes(mock, accountID)

	mock.ExpectExec("DELETE FROM accounts WHERE id = \\$1").
		WithArgs(accountID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Post-condition: every dependent table must count zero before the
	// commit is allowed.
	for range dependents {
		mock.ExpectQuery("SELECT COUNT").
			WithArgs(accountID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	}

	mock.ExpectExec("RELEASE SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, coordinator.DeleteAccount(context.Background(), accountID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountUnknownAccount(t *testing.T) {
	coordinator, mock := newMockCoordinator(t)
	accountID := "missing"

	expectSavepointOpen(mock)
	expectCreatedExerciseChildDeletes(mock, accountID)
	expectDependentDeletes(mock, accountID)

	mock.ExpectExec("DELETE FROM accounts WHERE id = \\$1").
		WithArgs(accountID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := coordinator.DeleteAccount(context.Background(), accountID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountOrphansRollBack(t *testing.T) {
	coordinator, mock := newMockCoordinator(t)
	accountID := "acc-1"

	expectSavepointOpen(mock)
	expectCreatedExerciseChildDeletes(mock, accountID)
	expectDependentDeletes(mock, accountID)

	mock.ExpectExec("DELETE FROM accounts WHERE id = \\$1").
		WithArgs(accountID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// First verification already finds a leftover row: nothing commits.
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(accountID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp_unit").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := coordinator.DeleteAccount(context.Background(), accountID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orphan")
	assert.NoError(t, mock.ExpectationsWereMet())
}
