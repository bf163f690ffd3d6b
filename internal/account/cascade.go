// AngelaMos | 2026
// cascade.go

package account

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zyclope0/mathakine-sub004/internal/core"
)

// dependent names a table holding rows keyed to an account. Deletion is
// generic by table and foreign-key column; the coordinator knows nothing
// about what the rows mean.
type dependent struct {
	table  string
	column string
}

var dependents = []dependent{
	{"exercise_attempts", "account_id"},
	{"progress", "account_id"},
	{"recommendations", "account_id"},
	{"account_badges", "account_id"},
	{"sessions", "account_id"},
	{"notifications", "account_id"},
	{"challenge_attempts", "account_id"},
	{"exercises", "creator_id"},
}

// Coordinator performs hard account deletion as an all-or-nothing
// cascade: every dependent row and the account itself go in one
// transaction, children before parent, and the post-condition (zero
// remaining dependent rows) is proven before commit. A partially
// deleted account is never observable.
type Coordinator struct {
	tx *core.TxManager
}

func NewCoordinator(tx *core.TxManager) *Coordinator {
	return &Coordinator{tx: tx}
}

func (c *Coordinator) DeleteAccount(ctx context.Context, accountID string) error {
	return c.tx.Run(ctx, func(tx *sqlx.Tx) error {
		// Rows from other accounts referencing this account's created
		// exercises must go first or the exercise deletes would violate
		// their foreign keys.
		for _, table := range []string{"exercise_attempts", "recommendations"} {
			query := fmt.Sprintf(`
				DELETE FROM %s
				WHERE exercise_id IN (
					SELECT id FROM exercises WHERE creator_id = $1
				)`, table)
			if _, err := tx.ExecContext(ctx, query, accountID); err != nil {
				return fmt.Errorf("delete %s for created exercises: %w", table, err)
			}
		}

		for _, d := range dependents {
			query := fmt.Sprintf(
				"DELETE FROM %s WHERE %s = $1",
				d.table,
				d.column,
			)
			if _, err := tx.ExecContext(ctx, query, accountID); err != nil {
				return fmt.Errorf("delete from %s: %w", d.table, err)
			}
		}

		result, err := tx.ExecContext(
			ctx,
			"DELETE FROM accounts WHERE id = $1",
			accountID,
		)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("delete account: %w", core.ErrNotFound)
		}

		return verifyNoOrphans(ctx, tx, accountID)
	})
}

// verifyNoOrphans scans every dependent table even when the schema
// defines its own cascading; the cascade is never trusted silently.
func verifyNoOrphans(
	ctx context.Context,
	tx *sqlx.Tx,
	accountID string,
) error {
	for _, d := range dependents {
		query := fmt.Sprintf(
			"SELECT COUNT(*) FROM %s WHERE %s = $1",
			d.table,
			d.column,
		)

		var count int
		if err := tx.GetContext(ctx, &count, query, accountID); err != nil {
			return fmt.Errorf("verify %s: %w", d.table, err)
		}

		if count > 0 {
			return fmt.Errorf(
				"cascade left %d orphan rows in %s",
				count,
				d.table,
			)
		}
	}

	return nil
}
