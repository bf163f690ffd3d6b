// AngelaMos | 2026
// role.go

package authz

import (
	"database/sql/driver"
	"fmt"
)

// Role is a closed set of four ranks in ascending privilege. Storage
// keeps roles as text; the mapping lives here at the persistence
// boundary so business logic only ever sees the enum.
type Role int

const (
	RoleLearner Role = iota + 1
	RoleAuthor
	RoleModerator
	RoleAdmin
)

const (
	roleLearnerName   = "learner"
	roleAuthorName    = "author"
	roleModeratorName = "moderator"
	roleAdminName     = "admin"
)

func (r Role) String() string {
	switch r {
	case RoleLearner:
		return roleLearnerName
	case RoleAuthor:
		return roleAuthorName
	case RoleModerator:
		return roleModeratorName
	case RoleAdmin:
		return roleAdminName
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

func (r Role) Valid() bool {
	return r >= RoleLearner && r <= RoleAdmin
}

// Rank returns the numeric privilege level, 1 through 4.
func (r Role) Rank() int {
	return int(r)
}

func (r Role) AtLeast(other Role) bool {
	return r >= other
}

func ParseRole(s string) (Role, error) {
	switch s {
	case roleLearnerName:
		return RoleLearner, nil
	case roleAuthorName:
		return RoleAuthor, nil
	case roleModeratorName:
		return RoleModerator, nil
	case roleAdminName:
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal role: invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("store role: invalid role %d", int(r))
	}
	return r.String(), nil
}

func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseRole(v)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	case []byte:
		return r.Scan(string(v))
	default:
		return fmt.Errorf("scan role: unsupported type %T", src)
	}
}
