// AngelaMos | 2026
// service.go

package exercise

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zyclope0/mathakine-sub004/internal/auth"
	"github.com/zyclope0/mathakine-sub004/internal/authz"
	"github.com/zyclope0/mathakine-sub004/internal/core"
)

// AccountDirectory resolves the authenticated username to account state.
// Satisfied by the account service.
type AccountDirectory interface {
	GetByUsername(ctx context.Context, username string) (*auth.AccountInfo, error)
}

// ScoreRecorder receives points for correct attempts. Satisfied by the
// leaderboard service.
type ScoreRecorder interface {
	RecordScore(ctx context.Context, username string, points int) error
}

type Service struct {
	repo     Repository
	accounts AccountDirectory
	tx       *core.TxManager
	scores   ScoreRecorder
}

func NewService(
	repo Repository,
	accounts AccountDirectory,
	tx *core.TxManager,
	scores ScoreRecorder,
) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		tx:       tx,
		scores:   scores,
	}
}

func (s *Service) List(
	ctx context.Context,
	role authz.Role,
	params ListExercisesParams,
) ([]Exercise, int, error) {
	// Archived exercises stay visible to moderation ranks only.
	if !role.AtLeast(authz.RoleModerator) {
		params.IncludeArchived = false
	}

	return s.repo.List(ctx, params)
}

func (s *Service) Get(
	ctx context.Context,
	role authz.Role,
	id string,
) (*Exercise, error) {
	exercise, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Same visibility rule as List.
	if exercise.IsArchived && !role.AtLeast(authz.RoleModerator) {
		return nil, fmt.Errorf("exercise archived: %w", core.ErrNotFound)
	}

	return exercise, nil
}

func (s *Service) Create(
	ctx context.Context,
	username string,
	role authz.Role,
	scope authz.AccessScope,
	req CreateExerciseRequest,
) (*Exercise, error) {
	if err := authz.Decide(role, scope, authz.ActionCreateExercise, false); err != nil {
		return nil, err
	}

	creator, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	exercise := &Exercise{
		ID:         uuid.New().String(),
		Title:      req.Title,
		Question:   req.Question,
		Answer:     req.Answer,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Points:     req.Points,
		CreatorID:  creator.ID,
	}

	if err := s.repo.Create(ctx, exercise); err != nil {
		return nil, err
	}

	return exercise, nil
}

func (s *Service) Update(
	ctx context.Context,
	username string,
	role authz.Role,
	scope authz.AccessScope,
	id string,
	req UpdateExerciseRequest,
) (*Exercise, error) {
	exercise, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner, err := s.isOwner(ctx, username, exercise)
	if err != nil {
		return nil, err
	}

	if err := authz.Decide(role, scope, authz.ActionModifyExercise, owner); err != nil {
		return nil, err
	}

	applyUpdate(exercise, req)

	if err := s.repo.Update(ctx, exercise); err != nil {
		return nil, err
	}

	return exercise, nil
}

// Delete tears down an exercise and its attempts. The dual-path removal
// reports a boolean outcome; callers never see raw SQL failures.
func (s *Service) Delete(
	ctx context.Context,
	username string,
	role authz.Role,
	scope authz.AccessScope,
	id string,
) error {
	exercise, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	owner, err := s.isOwner(ctx, username, exercise)
	if err != nil {
		return err
	}

	if err := authz.Decide(role, scope, authz.ActionDeleteExercise, owner); err != nil {
		return err
	}

	ok := s.tx.SafeDelete(
		ctx,
		func(tx *sqlx.Tx) error {
			return s.repo.DeleteWithAttempts(ctx, tx, id)
		},
		"exercises", "id", id,
	)
	if !ok {
		return fmt.Errorf("delete exercise %s: both removal paths failed", id)
	}

	return nil
}

func (s *Service) Archive(
	ctx context.Context,
	role authz.Role,
	scope authz.AccessScope,
	id string,
) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := authz.Decide(role, scope, authz.ActionArchiveExercise, false); err != nil {
		return err
	}

	if !s.tx.SafeArchive(ctx, "exercises", id) {
		return fmt.Errorf("archive exercise %s failed", id)
	}

	return nil
}

func (s *Service) SubmitAttempt(
	ctx context.Context,
	username string,
	role authz.Role,
	scope authz.AccessScope,
	exerciseID, answer string,
) (*Attempt, int, error) {
	if err := authz.Decide(role, scope, authz.ActionAttemptExercise, false); err != nil {
		return nil, 0, err
	}

	exercise, err := s.repo.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, 0, err
	}

	// Archived exercises no longer accept attempts.
	if exercise.IsArchived {
		return nil, 0, fmt.Errorf("exercise archived: %w", core.ErrNotFound)
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, 0, err
	}

	attempt := &Attempt{
		ID:         uuid.New().String(),
		ExerciseID: exercise.ID,
		AccountID:  account.ID,
		Answer:     answer,
		IsCorrect:  exercise.Check(answer),
	}

	if err := s.repo.CreateAttempt(ctx, attempt); err != nil {
		return nil, 0, err
	}

	points := 0
	if attempt.IsCorrect {
		points = exercise.Points
		// Attempts are the source of truth; a scoreboard push failure
		// must not fail the attempt.
		if err := s.scores.RecordScore(ctx, username, points); err != nil {
			slog.Warn("score push failed",
				"username", username,
				"exercise_id", exercise.ID,
				"error", err,
			)
		}
	}

	return attempt, points, nil
}

func (s *Service) ListMyAttempts(
	ctx context.Context,
	username string,
	limit int,
) ([]Attempt, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.repo.ListAttemptsByAccount(ctx, account.ID, limit)
}

func (s *Service) isOwner(
	ctx context.Context,
	username string,
	exercise *Exercise,
) (bool, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}

	return account.ID == exercise.CreatorID, nil
}

func applyUpdate(exercise *Exercise, req UpdateExerciseRequest) {
	if req.Title != nil {
		exercise.Title = *req.Title
	}
	if req.Question != nil {
		exercise.Question = *req.Question
	}
	if req.Answer != nil {
		exercise.Answer = *req.Answer
	}
	if req.Topic != nil {
		exercise.Topic = *req.Topic
	}
	if req.Difficulty != nil {
		exercise.Difficulty = *req.Difficulty
	}
	if req.Points != nil {
		exercise.Points = *req.Points
	}
}
