// AngelaMos | 2026
// tx.go

package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

const savepointName = "sp_unit"

// TxManager wraps every mutating operation in a savepoint-scoped
// transaction. Run owns the outer transaction; RunNested manages only a
// savepoint inside a caller-owned transaction so multiple operations can
// compose under one commit.
type TxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

// Run opens a transaction and a savepoint, invokes fn, releases the
// savepoint and commits. Any error or panic rolls back the savepoint
// and the outer transaction on every exit path.
func (m *TxManager) Run(
	ctx context.Context,
	fn func(tx *sqlx.Tx) error,
) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback() //nolint:errcheck // best-effort rollback on panic
			panic(p)
		}
	}()

	if err := m.runSavepoint(ctx, tx, fn); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// RunNested runs fn inside a savepoint on a transaction the caller
// already owns. The outer commit stays with the caller; a failure here
// only unwinds to the savepoint.
func (m *TxManager) RunNested(
	ctx context.Context,
	tx *sqlx.Tx,
	fn func(tx *sqlx.Tx) error,
) error {
	return m.runSavepoint(ctx, tx, fn)
}

func (m *TxManager) runSavepoint(
	ctx context.Context,
	tx *sqlx.Tx,
	fn func(tx *sqlx.Tx) error,
) error {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepointName); err != nil {
		return fmt.Errorf("open savepoint: %w", err)
	}

	if err := fn(tx); err != nil {
		if _, spErr := tx.ExecContext(
			ctx,
			"ROLLBACK TO SAVEPOINT "+savepointName,
		); spErr != nil {
			return fmt.Errorf(
				"rollback savepoint: %w (original: %w)",
				spErr,
				err,
			)
		}
		return err
	}

	if _, err := tx.ExecContext(
		ctx,
		"RELEASE SAVEPOINT "+savepointName,
	); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}

	return nil
}

// SafeDelete attempts the entity-aware delete first, then falls back to
// a direct row deletion that sidesteps any relationship assumptions.
// Both attempts run in their own transaction; only both failing is a
// real failure. SQL errors never reach the caller.
func (m *TxManager) SafeDelete(
	ctx context.Context,
	primary func(tx *sqlx.Tx) error,
	table, idColumn, id string,
) bool {
	if primary != nil {
		if err := m.Run(ctx, primary); err == nil {
			return true
		} else {
			slog.Debug("entity delete failed, retrying with direct statement",
				"table", table,
				"error", err,
			)
		}
	}

	err := m.Run(ctx, func(tx *sqlx.Tx) error {
		query := fmt.Sprintf(
			"DELETE FROM %s WHERE %s = $1",
			table,
			idColumn,
		)
		_, execErr := tx.ExecContext(ctx, query, id)
		return execErr
	})
	if err != nil {
		slog.Warn("safe delete failed on both attempts",
			"table", table,
			"error", err,
		)
		return false
	}

	return true
}

// archivableTables maps a table to its soft-delete flag column. Targets
// without a flag cannot be archived and fail without mutating anything.
var archivableTables = map[string]string{
	"exercises":  "is_archived",
	"challenges": "is_archived",
}

// SafeArchive sets the soft-delete flag and commits, reporting a boolean
// outcome. Unknown targets and commit failures both report false.
func (m *TxManager) SafeArchive(ctx context.Context, table, id string) bool {
	flag, ok := archivableTables[table]
	if !ok {
		slog.Warn("safe archive on non-archivable table", "table", table)
		return false
	}

	err := m.Run(ctx, func(tx *sqlx.Tx) error {
		query := fmt.Sprintf(
			"UPDATE %s SET %s = true WHERE id = $1",
			table,
			flag,
		)
		result, execErr := tx.ExecContext(ctx, query, id)
		if execErr != nil {
			return execErr
		}

		rows, raErr := result.RowsAffected()
		if raErr != nil {
			return raErr
		}
		if rows == 0 {
			return fmt.Errorf("archive %s: %w", table, ErrNotFound)
		}

		return nil
	})
	if err != nil {
		slog.Warn("safe archive failed",
			"table", table,
			"error", err,
		)
		return false
	}

	return true
}
