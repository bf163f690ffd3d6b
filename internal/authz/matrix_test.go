// AngelaMos | 2026
// matrix_test.go

package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyclope0/mathakine-sub004/internal/core"
)

func TestDecideOwnership(t *testing.T) {
	// Two authors and a moderator against one author's exercise: the
	// owner and the moderator may modify it, the other author may not.
	assert.NoError(t, Decide(RoleAuthor, ScopeFull, ActionModifyExercise, true))
	assert.Error(t, Decide(RoleAuthor, ScopeFull, ActionModifyExercise, false))
	assert.NoError(t, Decide(RoleModerator, ScopeFull, ActionModifyExercise, false))
}

func TestDecideLearnerOwnershipDoesNotHelp(t *testing.T) {
	// Rank is checked before ownership: a learner owning a resource
	// still cannot modify it.
	err := Decide(RoleLearner, ScopeFull, ActionModifyExercise, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestDecideScopeRestrictions(t *testing.T) {
	restricted := []Action{
		ActionViewLeaderboard,
		ActionListChallenges,
		ActionAttemptChallenge,
	}

	for _, action := range restricted {
		t.Run(action.String(), func(t *testing.T) {
			err := Decide(RoleLearner, ScopeExercisesOnly, action, false)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrForbidden)

			assert.NoError(t, Decide(RoleLearner, ScopeFull, action, false))
		})
	}
}

func TestDecideScopeRestrictionAppliesToEveryRank(t *testing.T) {
	// The restricted window is about account state, not rank: an
	// unverified admin past the grace window is denied too.
	for _, role := range []Role{RoleLearner, RoleAuthor, RoleModerator, RoleAdmin} {
		err := Decide(role, ScopeExercisesOnly, ActionViewLeaderboard, false)
		assert.Error(t, err, "role %s", role)
	}
}

func TestDecideExercisesStayOpenUnderRestrictedScope(t *testing.T) {
	assert.NoError(t, Decide(RoleLearner, ScopeExercisesOnly, ActionReadExercise, false))
	assert.NoError(t, Decide(RoleLearner, ScopeExercisesOnly, ActionAttemptExercise, false))
	assert.NoError(t, Decide(RoleLearner, ScopeExercisesOnly, ActionViewProfile, false))
	assert.NoError(t, Decide(RoleLearner, ScopeExercisesOnly, ActionListBadges, false))
}

func TestDecideRankGates(t *testing.T) {
	tests := []struct {
		name   string
		role   Role
		action Action
		allow  bool
	}{
		{"learner cannot create", RoleLearner, ActionCreateExercise, false},
		{"author can create", RoleAuthor, ActionCreateExercise, true},
		{"author cannot archive", RoleAuthor, ActionArchiveExercise, false},
		{"moderator can archive", RoleModerator, ActionArchiveExercise, true},
		{"author cannot list accounts", RoleAuthor, ActionListAccounts, false},
		{"moderator can list accounts", RoleModerator, ActionListAccounts, true},
		{"moderator cannot delete accounts", RoleModerator, ActionDeleteAccount, false},
		{"admin can delete accounts", RoleAdmin, ActionDeleteAccount, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decide(tt.role, ScopeFull, tt.action, false)
			if tt.allow {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, core.ErrForbidden)
			}
		})
	}
}

func TestDecideUnknownRole(t *testing.T) {
	err := Decide(Role(0), ScopeFull, ActionReadExercise, false)
	assert.ErrorIs(t, err, core.ErrForbidden)

	err = Decide(Role(99), ScopeFull, ActionReadExercise, false)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestRoleParsingAndRanks(t *testing.T) {
	for _, tt := range []struct {
		name string
		role Role
	}{
		{"learner", RoleLearner},
		{"author", RoleAuthor},
		{"moderator", RoleModerator},
		{"admin", RoleAdmin},
	} {
		parsed, err := ParseRole(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.role, parsed)
		assert.Equal(t, tt.name, parsed.String())
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)

	assert.True(t, RoleAdmin.AtLeast(RoleLearner))
	assert.True(t, RoleModerator.AtLeast(RoleModerator))
	assert.False(t, RoleAuthor.AtLeast(RoleModerator))
}
