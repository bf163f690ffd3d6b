// AngelaMos | 2026
// handler.go

package challenge

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/zyclope0/mathakine-sub004/internal/authz"
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
	r.Route("/challenges", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(withScope)

		r.Get("/", h.List)
		r.Get("/{challengeID}", h.Get)
		r.Post("/{challengeID}/attempts", h.SubmitAttempt)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRank(authz.RoleModerator))
			r.Post("/", h.Create)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	challenges, err := h.service.List(
		ctx,
		middleware.GetRole(ctx),
		middleware.GetScope(ctx),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToChallengeResponseList(challenges, time.Now()))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	challenge, err := h.service.Get(
		ctx,
		middleware.GetRole(ctx),
		middleware.GetScope(ctx),
		chi.URLParam(r, "challengeID"),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToChallengeResponse(challenge, time.Now()))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	challenge, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToChallengeResponse(challenge, time.Now()))
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
		chi.URLParam(r, "challengeID"),
		req.Answer,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, AttemptResponse{
		ID:          attempt.ID,
		ChallengeID: attempt.ChallengeID,
		IsCorrect:   attempt.IsCorrect,
		Points:      points,
		CreatedAt:   attempt.CreatedAt,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "challenge")
	default:
		core.JSONError(w, err)
	}
}
