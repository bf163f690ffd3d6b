// AngelaMos | 2026
// matrix.go

package authz

import (
	"fmt"

	"github.com/zyclope0/mathakine-sub004/internal/core"
)

// Action enumerates every decision the permission matrix can make.
type Action int

const (
	ActionReadExercise Action = iota + 1
	ActionAttemptExercise
	ActionCreateExercise
	ActionModifyExercise
	ActionDeleteExercise
	ActionArchiveExercise
	ActionListAccounts
	ActionDeleteAccount
	ActionViewLeaderboard
	ActionListChallenges
	ActionAttemptChallenge
	ActionViewProfile
	ActionViewStatistics
	ActionListBadges
)

func (a Action) String() string {
	switch a {
	case ActionReadExercise:
		return "read_exercise"
	case ActionAttemptExercise:
		return "attempt_exercise"
	case ActionCreateExercise:
		return "create_exercise"
	case ActionModifyExercise:
		return "modify_exercise"
	case ActionDeleteExercise:
		return "delete_exercise"
	case ActionArchiveExercise:
		return "archive_exercise"
	case ActionListAccounts:
		return "list_accounts"
	case ActionDeleteAccount:
		return "delete_account"
	case ActionViewLeaderboard:
		return "view_leaderboard"
	case ActionListChallenges:
		return "list_challenges"
	case ActionAttemptChallenge:
		return "attempt_challenge"
	case ActionViewProfile:
		return "view_profile"
	case ActionViewStatistics:
		return "view_statistics"
	case ActionListBadges:
		return "list_badges"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// restrictedUnderExercisesOnly lists the competitive and social surfaces
// an unverified account loses after the grace window.
var restrictedUnderExercisesOnly = map[Action]bool{
	ActionViewLeaderboard:  true,
	ActionListChallenges:   true,
	ActionAttemptChallenge: true,
}

// Decide combines role, resolved scope, and resource ownership into an
// allow/deny decision. Every denial is an explicit typed error; nothing
// is ever silently filtered.
func Decide(role Role, scope AccessScope, action Action, owner bool) error {
	if !role.Valid() {
		return core.ForbiddenError("unknown role")
	}

	if scope == ScopeExercisesOnly && restrictedUnderExercisesOnly[action] {
		return core.ForbiddenError(
			"verify your email to access " + action.String(),
		)
	}

	switch action {
	case ActionReadExercise,
		ActionAttemptExercise,
		ActionViewLeaderboard,
		ActionListChallenges,
		ActionAttemptChallenge,
		ActionViewProfile,
		ActionViewStatistics,
		ActionListBadges:
		return nil

	case ActionCreateExercise:
		if role.AtLeast(RoleAuthor) {
			return nil
		}
		return core.ForbiddenError("creating exercises requires author rank")

	case ActionModifyExercise, ActionDeleteExercise:
		// Ownership takes precedence for authors; moderators and admins
		// bypass it. Learners are denied even for their own resources.
		if role.AtLeast(RoleModerator) {
			return nil
		}
		if role == RoleAuthor {
			if owner {
				return nil
			}
			return core.ForbiddenError(
				"authors may only modify their own exercises",
			)
		}
		return core.ForbiddenError("modifying exercises requires author rank")

	case ActionArchiveExercise:
		if role.AtLeast(RoleModerator) {
			return nil
		}
		return core.ForbiddenError("archiving requires moderator rank")

	case ActionListAccounts:
		if role.AtLeast(RoleModerator) {
			return nil
		}
		return core.ForbiddenError("listing accounts requires moderator rank")

	case ActionDeleteAccount:
		// Hard deletion is reserved to admins; moderators do not bypass
		// this one. Self-deletion is decided by the caller before the
		// matrix is consulted.
		if role == RoleAdmin {
			return nil
		}
		return core.ForbiddenError("deleting accounts requires admin rank")

	default:
		return core.ForbiddenError("unknown action")
	}
}
