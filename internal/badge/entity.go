// AngelaMos | 2026
// entity.go

package badge

import (
	"time"
)

type Badge struct {
	ID          string    `db:"id"          json:"id"`
	Code        string    `db:"code"        json:"code"`
	Name        string    `db:"name"        json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
}

// AwardedBadge is a badge joined with the moment an account earned it.
type AwardedBadge struct {
	Badge
	AwardedAt time.Time `db:"awarded_at" json:"awarded_at"`
}

// Stats are platform-wide aggregates, served through the read-through
// cache because they scan attempt tables.
type Stats struct {
	TotalAccounts    int `db:"total_accounts"    json:"total_accounts"`
	TotalExercises   int `db:"total_exercises"   json:"total_exercises"`
	TotalAttempts    int `db:"total_attempts"    json:"total_attempts"`
	CorrectAttempts  int `db:"correct_attempts"  json:"correct_attempts"`
	BadgesAwarded    int `db:"badges_awarded"    json:"badges_awarded"`
	ActiveChallenges int `db:"active_challenges" json:"active_challenges"`
}
