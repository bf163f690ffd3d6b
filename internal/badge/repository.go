// AngelaMos | 2026
// repository.go

package badge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zyclope0/mathakine-sub004/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Badge, error)
	ListForAccount(ctx context.Context, accountID string) ([]AwardedBadge, error)
	GetByCode(ctx context.Context, code string) (*Badge, error)
	Award(ctx context.Context, accountID, badgeID string) error
	Stats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Badge, error) {
	query := `
		SELECT id, code, name, description, created_at
		FROM badges
		ORDER BY code`

	var badges []Badge
	if err := r.db.SelectContext(ctx, &badges, query); err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}

	return badges, nil
}

func (r *repository) ListForAccount(
	ctx context.Context,
	accountID string,
) ([]AwardedBadge, error) {
	query := `
		SELECT b.id, b.code, b.name, b.description, b.created_at,
		       ab.awarded_at
		FROM badges b
		JOIN account_badges ab ON ab.badge_id = b.id
		WHERE ab.account_id = $1
		ORDER BY ab.awarded_at DESC`

	var badges []AwardedBadge
	if err := r.db.SelectContext(ctx, &badges, query, accountID); err != nil {
		return nil, fmt.Errorf("list account badges: %w", err)
	}

	return badges, nil
}

func (r *repository) GetByCode(
	ctx context.Context,
	code string,
) (*Badge, error) {
	query := `
		SELECT id, code, name, description, created_at
		FROM badges
		WHERE code = $1`

	var badge Badge
	err := r.db.GetContext(ctx, &badge, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get badge %q: %w", code, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get badge %q: %w", code, err)
	}

	return &badge, nil
}

func (r *repository) Award(ctx context.Context, accountID, badgeID string) error {
	// Re-awarding the same badge is a no-op.
	query := `
		INSERT INTO account_badges (account_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT (account_id, badge_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, accountID, badgeID); err != nil {
		return fmt.Errorf("award badge: %w", err)
	}

	return nil
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM accounts)                             AS total_accounts,
			(SELECT COUNT(*) FROM exercises WHERE is_archived = false)  AS total_exercises,
			(SELECT COUNT(*) FROM exercise_attempts)                    AS total_attempts,
			(SELECT COUNT(*) FROM exercise_attempts WHERE is_correct)   AS correct_attempts,
			(SELECT COUNT(*) FROM account_badges)                       AS badges_awarded,
			(SELECT COUNT(*) FROM challenges
				WHERE is_archived = false
				  AND starts_at <= NOW() AND ends_at > NOW())           AS active_challenges`

	var stats Stats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}

	return &stats, nil
}
