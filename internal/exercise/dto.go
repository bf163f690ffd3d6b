// AngelaMos | 2026
// dto.go

package exercise

import (
	"time"
)

type CreateExerciseRequest struct {
	Title      string `json:"title"      validate:"required,min=3,max=200"`
	Question   string `json:"question"   validate:"required,min=3,max=2000"`
	Answer     string `json:"answer"     validate:"required,min=1,max=500"`
	Topic      string `json:"topic"      validate:"required,min=2,max=50"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Points     int    `json:"points"     validate:"required,min=1,max=100"`
}

type UpdateExerciseRequest struct {
	Title      *string `json:"title,omitempty"      validate:"omitempty,min=3,max=200"`
	Question   *string `json:"question,omitempty"   validate:"omitempty,min=3,max=2000"`
	Answer     *string `json:"answer,omitempty"     validate:"omitempty,min=1,max=500"`
	Topic      *string `json:"topic,omitempty"      validate:"omitempty,min=2,max=50"`
	Difficulty *string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Points     *int    `json:"points,omitempty"     validate:"omitempty,min=1,max=100"`
}

func (r *UpdateExerciseRequest) Empty() bool {
	return r.Title == nil &&
		r.Question == nil &&
		r.Answer == nil &&
		r.Topic == nil &&
		r.Difficulty == nil &&
		r.Points == nil
}

type SubmitAttemptRequest struct {
	Answer string `json:"answer" validate:"required,max=500"`
}

// ExerciseResponse omits the stored answer; solutions never leave the
// service through the listing or detail surfaces.
type ExerciseResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Question   string    `json:"question"`
	Topic      string    `json:"topic"`
	Difficulty string    `json:"difficulty"`
	Points     int       `json:"points"`
	CreatorID  string    `json:"creator_id"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ExerciseListResponse struct {
	Exercises []ExerciseResponse `json:"exercises"`
	Total     int                `json:"total"`
}

type AttemptResponse struct {
	ID         string    `json:"id"`
	ExerciseID string    `json:"exercise_id"`
	IsCorrect  bool      `json:"is_correct"`
	Points     int       `json:"points_awarded"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListExercisesParams struct {
	Page            int
	PageSize        int
	Topic           string
	Difficulty      string
	IncludeArchived bool
}

func (p *ListExercisesParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListExercisesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToExerciseResponse(e *Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:         e.ID,
		Title:      e.Title,
		Question:   e.Question,
		Topic:      e.Topic,
		Difficulty: e.Difficulty,
		Points:     e.Points,
		CreatorID:  e.CreatorID,
		IsArchived: e.IsArchived,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func ToExerciseResponseList(exercises []Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, 0, len(exercises))
	for _, e := range exercises {
		responses = append(responses, ToExerciseResponse(&e))
	}
	return responses
}
