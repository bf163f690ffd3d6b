// AngelaMos | 2026
// repository.go

package exercise

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/zyclope0/mathakine-sub004/internal/core"
)

type Repository interface {
	Create(ctx context.Context, exercise *Exercise) error
	GetByID(ctx context.Context, id string) (*Exercise, error)
	Update(ctx context.Context, exercise *Exercise) error
	List(
		ctx context.Context,
		params ListExercisesParams,
	) ([]Exercise, int, error)
	DeleteWithAttempts(ctx context.Context, tx *sqlx.Tx, id string) error
	CreateAttempt(ctx context.Context, attempt *Attempt) error
	ListAttemptsByAccount(
		ctx context.Context,
		accountID string,
		limit int,
	) ([]Attempt, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const exerciseColumns = `
	id, title, question, answer, topic, difficulty, points,
	creator_id, is_archived, created_at, updated_at`

func (r *repository) Create(ctx context.Context, exercise *Exercise) error {
	query := `
		INSERT INTO exercises
			(id, title, question, answer, topic, difficulty, points, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, exercise, query,
		exercise.ID,
		exercise.Title,
		exercise.Question,
		exercise.Answer,
		exercise.Topic,
		exercise.Difficulty,
		exercise.Points,
		exercise.CreatorID,
	)
	if err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Exercise, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM exercises WHERE id = $1`,
		exerciseColumns,
	)

	var exercise Exercise
	err := r.db.GetContext(ctx, &exercise, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get exercise: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}

	return &exercise, nil
}

func (r *repository) Update(ctx context.Context, exercise *Exercise) error {
	query := `
		UPDATE exercises
		SET title = $2, question = $3, answer = $4, topic = $5,
		    difficulty = $6, points = $7, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		exercise.ID,
		exercise.Title,
		exercise.Question,
		exercise.Answer,
		exercise.Topic,
		exercise.Difficulty,
		exercise.Points,
	)
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update exercise: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListExercisesParams,
) ([]Exercise, int, error) {
	params.Normalize()

	conditions := []string{"true"}
	var args []any
	argIdx := 1

	if !params.IncludeArchived {
		conditions = append(conditions, "is_archived = false")
	}

	if params.Topic != "" {
		conditions = append(conditions, fmt.Sprintf("topic = $%d", argIdx))
		args = append(args, params.Topic)
		argIdx++
	}

	if params.Difficulty != "" {
		conditions = append(conditions, fmt.Sprintf("difficulty = $%d", argIdx))
		args = append(args, params.Difficulty)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM exercises WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count exercises: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM exercises
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		exerciseColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var exercises []Exercise
	if err := r.db.SelectContext(ctx, &exercises, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list exercises: %w", err)
	}

	return exercises, total, nil
}

// DeleteWithAttempts removes an exercise and everything referencing it,
// children first, inside the caller's transaction.
func (r *repository) DeleteWithAttempts(
	ctx context.Context,
	tx *sqlx.Tx,
	id string,
) error {
	for _, table := range []string{"exercise_attempts", "recommendations"} {
		query := fmt.Sprintf("DELETE FROM %s WHERE exercise_id = $1", table)
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}

	result, err := tx.ExecContext(
		ctx,
		"DELETE FROM exercises WHERE id = $1",
		id,
	)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete exercise: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CreateAttempt(ctx context.Context, attempt *Attempt) error {
	query := `
		INSERT INTO exercise_attempts
			(id, exercise_id, account_id, answer, is_correct)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, attempt, query,
		attempt.ID,
		attempt.ExerciseID,
		attempt.AccountID,
		attempt.Answer,
		attempt.IsCorrect,
	)
	if err != nil {
		return fmt.Errorf("create attempt: %w", err)
	}

	return nil
}

func (r *repository) ListAttemptsByAccount(
	ctx context.Context,
	accountID string,
	limit int,
) ([]Attempt, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT id, exercise_id, account_id, answer, is_correct, created_at
		FROM exercise_attempts
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	var attempts []Attempt
	err := r.db.SelectContext(ctx, &attempts, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	return attempts, nil
}
