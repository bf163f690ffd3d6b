// AngelaMos | 2026
// service_test.go

package challenge

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyclope0/mathakine-sub004/internal/auth"
	"github.com/zyclope0/mathakine-sub004/internal/authz"
	"github.com/zyclope0/mathakine-sub004/internal/core"
)

type fakeRepo struct {
	challenges          map[string]*Challenge
	attempts            []*Attempt
	lastIncludeArchived bool
}

func (f *fakeRepo) Create(_ context.Context, c *Challenge) error {
	f.challenges[c.ID] = c
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Challenge, error) {
	if c, ok := f.challenges[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, fmt.Errorf("get challenge: %w", core.ErrNotFound)
}

func (f *fakeRepo) List(
	_ context.Context,
	includeArchived bool,
) ([]Challenge, error) {
	f.lastIncludeArchived = includeArchived
	var out []Challenge
	for _, c := range f.challenges {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) CreateAttempt(_ context.Context, a *Attempt) error {
	a.CreatedAt = time.Now()
	f.attempts = append(f.attempts, a)
	return nil
}

func (f *fakeRepo) HasCorrectAttempt(
	_ context.Context,
	challengeID, accountID string,
) (bool, error) {
	for _, a := range f.attempts {
		if a.ChallengeID == challengeID && a.AccountID == accountID && a.IsCorrect {
			return true, nil
		}
	}
	return false, nil
}

type fakeDirectory struct {
	accounts map[string]*auth.AccountInfo
}

func (f *fakeDirectory) GetByUsername(
	_ context.Context,
	username string,
) (*auth.AccountInfo, error) {
	if a, ok := f.accounts[username]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
}

type fakeScores struct {
	recorded map[string]int
}

func (f *fakeScores) RecordScore(
	_ context.Context,
	username string,
	points int,
) error {
	f.recorded[username] += points
	return nil
}

type fakeBadges struct {
	awards map[string][]string
}

func (f *fakeBadges) AwardByCode(
	_ context.Context,
	accountID, code string,
) error {
	f.awards[accountID] = append(f.awards[accountID], code)
	return nil
}

func newFixture() (*Service, *fakeRepo, *fakeScores, *fakeBadges) {
	repo := &fakeRepo{challenges: map[string]*Challenge{}}
	directory := &fakeDirectory{accounts: map[string]*auth.AccountInfo{
		"learner": {ID: "id-l", Username: "learner", Role: authz.RoleLearner},
	}}
	scores := &fakeScores{recorded: map[string]int{}}
	badges := &fakeBadges{awards: map[string][]string{}}

	return NewService(repo, directory, scores, badges), repo, scores, badges
}

func seedChallenge(repo *fakeRepo, now time.Time) *Challenge {
	c := &Challenge{
		ID:       "ch-1",
		Title:    "Weekly primes",
		Question: "Smallest prime above 100?",
		Answer:   "101",
		Points:   25,
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
	}
	repo.challenges[c.ID] = c
	return c
}

func TestListDeniedUnderRestrictedScope(t *testing.T) {
	svc, _, _, _ := newFixture()

	_, err := svc.List(
		context.Background(),
		authz.RoleLearner,
		authz.ScopeExercisesOnly,
	)
	assert.ErrorIs(t, err, core.ErrForbidden)

	_, err = svc.List(context.Background(), authz.RoleLearner, authz.ScopeFull)
	assert.NoError(t, err)
}

func TestListShowsArchivedToModeratorsOnly(t *testing.T) {
	svc, repo, _, _ := newFixture()

	_, err := svc.List(context.Background(), authz.RoleLearner, authz.ScopeFull)
	require.NoError(t, err)
	assert.False(t, repo.lastIncludeArchived)

	_, err = svc.List(context.Background(), authz.RoleModerator, authz.ScopeFull)
	require.NoError(t, err)
	assert.True(t, repo.lastIncludeArchived)
}

func TestSubmitAttemptOutsideWindow(t *testing.T) {
	svc, repo, _, _ := newFixture()
	now := time.Now()
	seedChallenge(repo, now)

	svc.now = func() time.Time { return now.Add(2 * time.Hour) }

	_, _, err := svc.SubmitAttempt(
		context.Background(),
		"learner",
		authz.RoleLearner,
		authz.ScopeFull,
		"ch-1",
		"101",
	)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestSubmitAttemptScoresOnce(t *testing.T) {
	svc, repo, scores, badges := newFixture()
	seedChallenge(repo, time.Now())

	attempt, points, err := svc.SubmitAttempt(
		context.Background(),
		"learner",
		authz.RoleLearner,
		authz.ScopeFull,
		"ch-1",
		" 101 ",
	)
	require.NoError(t, err)
	assert.True(t, attempt.IsCorrect)
	assert.Equal(t, 25, points)
	assert.Equal(t, 25, scores.recorded["learner"])
	assert.Equal(t, []string{badgeFirstChallenge}, badges.awards["id-l"])

	// A second correct attempt records but does not score again.
	attempt, points, err = svc.SubmitAttempt(
		context.Background(),
		"learner",
		authz.RoleLearner,
		authz.ScopeFull,
		"ch-1",
		"101",
	)
	require.NoError(t, err)
	assert.True(t, attempt.IsCorrect)
	assert.Zero(t, points)
	assert.Equal(t, 25, scores.recorded["learner"])
	assert.Len(t, repo.attempts, 2)
	assert.Len(t, badges.awards["id-l"], 1)
}

func TestSubmitAttemptDeniedUnderRestrictedScope(t *testing.T) {
	svc, repo, _, _ := newFixture()
	seedChallenge(repo, time.Now())

	_, _, err := svc.SubmitAttempt(
		context.Background(),
		"learner",
		authz.RoleLearner,
		authz.ScopeExercisesOnly,
		"ch-1",
		"101",
	)
	assert.ErrorIs(t, err, core.ErrForbidden)
	assert.Empty(t, repo.attempts)
}
