// AngelaMos | 2026
// handler.go

package exercise

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/zyclope0/mathakine-sub004/internal/core"
	"github.com/zyclope0/mathakine-sub004/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	withScope func(http.Handler) http.Handler,
) {
	r.Route("/exercises", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(withScope)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/attempts", h.ListMyAttempts)

		r.Route("/{exerciseID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/", h.Update)
			r.Delete("/", h.Delete)
			r.Post("/archive", h.Archive)
			r.Post("/attempts", h.SubmitAttempt)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListExercisesParams{
		Topic:      r.URL.Query().Get("topic"),
		Difficulty: r.URL.Query().Get("difficulty"),
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
		params.PageSize = size
	}
	params.IncludeArchived = r.URL.Query().Get("include_archived") == "true"

	exercises, total, err := h.service.List(
		r.Context(),
		middleware.GetRole(r.Context()),
		params,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ExerciseListResponse{
		Exercises: ToExerciseResponseList(exercises),
		Total:     total,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	exercise, err := h.service.Get(
		r.Context(),
		middleware.GetRole(r.Context()),
		chi.URLParam(r, "exerciseID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "exercise")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToExerciseResponse(exercise))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ctx := r.Context()
	exercise, err := h.service.Create(
		ctx,
		middleware.GetSubject(ctx),
		middleware.GetRole(ctx),
		middleware.GetScope(ctx),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToExerciseResponse(exercise))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if req.Empty() {
		core.BadRequest(w, "no fields to update")
		return
	}

	ctx := r.Context()
	exercise, err := h.service.Update(
		ctx,
		middleware.GetSubject(ctx),
		middleware.GetRole(ctx),
		middleware.GetScope(ctx),
		chi.URLParam(r, "exerciseID"),
		req,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToExerciseResponse(exercise))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.service.Delete(
		ctx,
		middleware.GetSubject(ctx),
		middleware.GetRole(ctx),
		middleware.GetScope(ctx),
		chi.URLParam(r, "exerciseID"),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.service.Archive(
		ctx,
		middleware.GetRole(ctx),
		middleware.GetScope(ctx),
		chi.URLParam(r, "exerciseID"),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, nil)
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	var req SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ctx := r.Context()
	attempt, points, err := h.service.SubmitAttempt(
		ctx,
		middleware.GetSubject(ctx),
		middleware.GetRole(ctx),
		middleware.GetScope(ctx),
		chi.URLParam(r, "exerciseID"),
		req.Answer,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, AttemptResponse{
		ID:         attempt.ID,
		ExerciseID: attempt.ExerciseID,
		IsCorrect:  attempt.IsCorrect,
		Points:     points,
		CreatedAt:  attempt.CreatedAt,
	})
}

func (h *Handler) ListMyAttempts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	attempts, err := h.service.ListMyAttempts(
		r.Context(),
		middleware.GetSubject(r.Context()),
		limit,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	responses := make([]AttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		responses = append(responses, AttemptResponse{
			ID:         a.ID,
			ExerciseID: a.ExerciseID,
			IsCorrect:  a.IsCorrect,
			CreatedAt:  a.CreatedAt,
		})
	}

	core.OK(w, responses)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "exercise")
	default:
		core.JSONError(w, err)
	}
}
