// AngelaMos | 2026
// repository.go

package challenge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zyclope0/mathakine-sub004/internal/core"
)

type Repository interface {
	Create(ctx context.Context, challenge *Challenge) error
	GetByID(ctx context.Context, id string) (*Challenge, error)
	List(ctx context.Context, includeArchived bool) ([]Challenge, error)
	CreateAttempt(ctx context.Context, attempt *Attempt) error
	HasCorrectAttempt(
		ctx context.Context,
		challengeID, accountID string,
	) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const challengeColumns = `
	id, title, description, question, answer, points,
	starts_at, ends_at, is_archived, created_at, updated_at`

func (r *repository) Create(ctx context.Context, challenge *Challenge) error {
	query := `
		INSERT INTO challenges
			(id, title, description, question, answer, points, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, challenge, query,
		challenge.ID,
		challenge.Title,
		challenge.Description,
		challenge.Question,
		challenge.Answer,
		challenge.Points,
		challenge.StartsAt,
		challenge.EndsAt,
	)
	if err != nil {
		return fmt.Errorf("create challenge: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Challenge, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM challenges WHERE id = $1`,
		challengeColumns,
	)

	var challenge Challenge
	err := r.db.GetContext(ctx, &challenge, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get challenge: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}

	return &challenge, nil
}

func (r *repository) List(
	ctx context.Context,
	includeArchived bool,
) ([]Challenge, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM challenges
		WHERE ($1 OR is_archived = false)
		ORDER BY starts_at DESC`,
		challengeColumns,
	)

	var challenges []Challenge
	err := r.db.SelectContext(ctx, &challenges, query, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	return challenges, nil
}

func (r *repository) CreateAttempt(ctx context.Context, attempt *Attempt) error {
	query := `
		INSERT INTO challenge_attempts
			(id, challenge_id, account_id, answer, is_correct)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, attempt, query,
		attempt.ID,
		attempt.ChallengeID,
		attempt.AccountID,
		attempt.Answer,
		attempt.IsCorrect,
	)
	if err != nil {
		return fmt.Errorf("create challenge attempt: %w", err)
	}

	return nil
}

func (r *repository) HasCorrectAttempt(
	ctx context.Context,
	challengeID, accountID string,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM challenge_attempts
			WHERE challenge_id = $1 AND account_id = $2 AND is_correct = true
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, challengeID, accountID)
	if err != nil {
		return false, fmt.Errorf("check challenge attempt: %w", err)
	}

	return exists, nil
}
