// AngelaMos | 2026
// dto.go

package challenge

import (
	"time"
)

type CreateChallengeRequest struct {
	Title       string    `json:"title"       validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"required,max=2000"`
	Question    string    `json:"question"    validate:"required,min=3,max=2000"`
	Answer      string    `json:"answer"      validate:"required,min=1,max=500"`
	Points      int       `json:"points"      validate:"required,min=1,max=500"`
	StartsAt    time.Time `json:"starts_at"   validate:"required"`
	EndsAt      time.Time `json:"ends_at"     validate:"required,gtfield=StartsAt"`
}

type SubmitAttemptRequest struct {
	Answer string `json:"answer" validate:"required,max=500"`
}

// ChallengeResponse omits the stored answer.
type ChallengeResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Question    string    `json:"question"`
	Points      int       `json:"points"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type AttemptResponse struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challenge_id"`
	IsCorrect   bool      `json:"is_correct"`
	Points      int       `json:"points_awarded"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToChallengeResponse(c *Challenge, now time.Time) ChallengeResponse {
	return ChallengeResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Question:    c.Question,
		Points:      c.Points,
		StartsAt:    c.StartsAt,
		EndsAt:      c.EndsAt,
		IsActive:    c.ActiveAt(now),
		CreatedAt:   c.CreatedAt,
	}
}

func ToChallengeResponseList(
	challenges []Challenge,
	now time.Time,
) []ChallengeResponse {
	responses := make([]ChallengeResponse, 0, len(challenges))
	for _, c := range challenges {
		responses = append(responses, ToChallengeResponse(&c, now))
	}
	return responses
}
