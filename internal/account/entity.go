// AngelaMos | 2026
// entity.go

package account

import (
	"time"

	"github.com/zyclope0/mathakine-sub004/internal/authz"
)

type Account struct {
	ID                string     `db:"id"`
	Username          string     `db:"username"`
	Email             string     `db:"email"`
	PasswordHash      string     `db:"password_hash"`
	Role              authz.Role `db:"role"`
	IsEmailVerified   bool       `db:"is_email_verified"`
	ResetTokenHash    *string    `db:"reset_token_hash"`
	ResetTokenExpires *time.Time `db:"reset_token_expires_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func (a *Account) HasActiveResetToken(now time.Time) bool {
	return a.ResetTokenHash != nil &&
		a.ResetTokenExpires != nil &&
		now.Before(*a.ResetTokenExpires)
}
