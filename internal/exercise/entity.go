// AngelaMos | 2026
// entity.go

package exercise

import (
	"strings"
	"time"
)

type Exercise struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	Question   string    `db:"question"`
	Answer     string    `db:"answer"`
	Topic      string    `db:"topic"`
	Difficulty string    `db:"difficulty"`
	Points     int       `db:"points"`
	CreatorID  string    `db:"creator_id"`
	IsArchived bool      `db:"is_archived"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Check compares a submitted answer against the stored one, ignoring
// case and surrounding whitespace.
func (e *Exercise) Check(submitted string) bool {
	return strings.EqualFold(
		strings.TrimSpace(submitted),
		strings.TrimSpace(e.Answer),
	)
}

type Attempt struct {
	ID         string    `db:"id"`
	ExerciseID string    `db:"exercise_id"`
	AccountID  string    `db:"account_id"`
	Answer     string    `db:"answer"`
	IsCorrect  bool      `db:"is_correct"`
	CreatedAt  time.Time `db:"created_at"`
}
