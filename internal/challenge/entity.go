// AngelaMos | 2026
// entity.go

package challenge

import (
	"strings"
	"time"
)

type Challenge struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Question    string    `db:"question"`
	Answer      string    `db:"answer"`
	Points      int       `db:"points"`
	StartsAt    time.Time `db:"starts_at"`
	EndsAt      time.Time `db:"ends_at"`
	IsArchived  bool      `db:"is_archived"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (c *Challenge) ActiveAt(now time.Time) bool {
	return !c.IsArchived &&
		!now.Before(c.StartsAt) &&
		now.Before(c.EndsAt)
}

func (c *Challenge) Check(submitted string) bool {
	return strings.EqualFold(
		strings.TrimSpace(submitted),
		strings.TrimSpace(c.Answer),
	)
}

type Attempt struct {
	ID          string    `db:"id"`
	ChallengeID string    `db:"challenge_id"`
	AccountID   string    `db:"account_id"`
	Answer      string    `db:"answer"`
	IsCorrect   bool      `db:"is_correct"`
	CreatedAt   time.Time `db:"created_at"`
}
