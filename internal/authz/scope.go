// AngelaMos | 2026
// scope.go

package authz

import (
	"fmt"
	"time"
)

// AccessScope is the derived authorization tier of an account. It is
// never persisted or cached: callers recompute it from account state on
// every login and identity lookup.
type AccessScope int

const (
	// ScopeFull grants every surface the role matrix allows.
	ScopeFull AccessScope = iota + 1
	// ScopeExercisesOnly keeps profile, statistics, badges, and exercise
	// surfaces reachable while denying competitive and social surfaces.
	ScopeExercisesOnly
)

func (s AccessScope) String() string {
	switch s {
	case ScopeFull:
		return "full"
	case ScopeExercisesOnly:
		return "exercises_only"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

func (s AccessScope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ResolveScope derives the access scope from two account fields and the
// current time. Verification is a terminal exit from the restricted
// state; an unverified account keeps full access up to and including the
// grace boundary and drops to exercises_only strictly after it.
func ResolveScope(
	emailVerified bool,
	createdAt, now time.Time,
	grace time.Duration,
) AccessScope {
	if emailVerified {
		return ScopeFull
	}

	if now.Sub(createdAt) > grace {
		return ScopeExercisesOnly
	}

	return ScopeFull
}
