// AngelaMos | 2026
// service.go

package challenge

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zyclope0/mathakine-sub004/internal/auth"
	"github.com/zyclope0/mathakine-sub004/internal/authz"
	"github.com/zyclope0/mathakine-sub004/internal/core"
)

type AccountDirectory interface {
	GetByUsername(ctx context.Context, username string) (*auth.AccountInfo, error)
}

type ScoreRecorder interface {
	RecordScore(ctx context.Context, username string, points int) error
}

// BadgeAwarder grants named badges. Satisfied by the badge service.
type BadgeAwarder interface {
	AwardByCode(ctx context.Context, accountID, code string) error
}

// badgeFirstChallenge marks an account's first solved challenge.
const badgeFirstChallenge = "first-challenge"

type Service struct {
	repo     Repository
	accounts AccountDirectory
	scores   ScoreRecorder
	badges   BadgeAwarder
	now      func() time.Time
}

func NewService(
	repo Repository,
	accounts AccountDirectory,
	scores ScoreRecorder,
	badges BadgeAwarder,
) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		scores:   scores,
		badges:   badges,
		now:      time.Now,
	}
}

// List is scope-gated: an unverified account past its grace window is
// denied before any data is read.
func (s *Service) List(
	ctx context.Context,
	role authz.Role,
	scope authz.AccessScope,
) ([]Challenge, error) {
	if err := authz.Decide(role, scope, authz.ActionListChallenges, false); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, role.AtLeast(authz.RoleModerator))
}

func (s *Service) Get(
	ctx context.Context,
	role authz.Role,
	scope authz.AccessScope,
	id string,
) (*Challenge, error) {
	if err := authz.Decide(role, scope, authz.ActionListChallenges, false); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// Create is reserved to moderation ranks; the route already gates on
// rank, so only the insert happens here.
func (s *Service) Create(
	ctx context.Context,
	req CreateChallengeRequest,
) (*Challenge, error) {
	challenge := &Challenge{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Question:    req.Question,
		Answer:      req.Answer,
		Points:      req.Points,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}

	if err := s.repo.Create(ctx, challenge); err != nil {
		return nil, err
	}

	return challenge, nil
}

func (s *Service) SubmitAttempt(
	ctx context.Context,
	username string,
	role authz.Role,
	scope authz.AccessScope,
	challengeID, answer string,
) (*Attempt, int, error) {
	if err := authz.Decide(role, scope, authz.ActionAttemptChallenge, false); err != nil {
		return nil, 0, err
	}

	challenge, err := s.repo.GetByID(ctx, challengeID)
	if err != nil {
		return nil, 0, err
	}

	if !challenge.ActiveAt(s.now()) {
		return nil, 0, core.ForbiddenError("challenge is not active")
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, 0, err
	}

	solved, err := s.repo.HasCorrectAttempt(ctx, challenge.ID, account.ID)
	if err != nil {
		return nil, 0, err
	}

	attempt := &Attempt{
		ID:          uuid.New().String(),
		ChallengeID: challenge.ID,
		AccountID:   account.ID,
		Answer:      answer,
		IsCorrect:   challenge.Check(answer),
	}

	if err := s.repo.CreateAttempt(ctx, attempt); err != nil {
		return nil, 0, err
	}

	// Points are awarded once per challenge, on the first correct
	// attempt only. Badge and score pushes are best-effort; the
	// attempt row is already committed.
	points := 0
	if attempt.IsCorrect && !solved {
		points = challenge.Points
		if err := s.scores.RecordScore(ctx, username, points); err != nil {
			slog.Warn("score push failed",
				"username", username,
				"challenge_id", challenge.ID,
				"error", err,
			)
		}

		if err := s.badges.AwardByCode(
			ctx,
			account.ID,
			badgeFirstChallenge,
		); err != nil {
			slog.Warn("badge award failed",
				"account_id", account.ID,
				"badge", badgeFirstChallenge,
				"error", err,
			)
		}
	}

	return attempt, points, nil
}
