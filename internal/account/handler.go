// AngelaMos | 2026
// handler.go

package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/zyclope0/mathakine-sub004/internal/auth"
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
) {
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.Register)
		r.Post("/password-reset", h.RequestPasswordReset)
		r.Post("/password-reset/confirm", h.ConfirmPasswordReset)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Route("/me", func(r chi.Router) {
				r.Get("/", h.GetMe)
				r.Patch("/", h.UpdateMe)
				r.Post("/password", h.ChangePassword)
				r.Post("/verify-email", h.VerifyEmail)
				r.Delete("/", h.DeleteMe)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRank(authz.RoleModerator))
				r.Get("/", h.List)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRank(authz.RoleAdmin))
				r.Patch("/{accountID}/role", h.UpdateRole)
				r.Delete("/{accountID}", h.Delete)
			})
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	account, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, duplicateFieldName(err))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToAccountResponse(account))
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == "" {
		core.Unauthorized(w, "")
		return
	}

	account, err := h.service.GetProfile(r.Context(), subject)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "account")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToAccountResponse(account))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == "" {
		core.Unauthorized(w, "")
		return
	}

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if req.Email == nil {
		core.BadRequest(w, "no fields to update")
		return
	}

	account, err := h.service.UpdateEmail(r.Context(), subject, *req.Email)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "account")
		case errors.Is(err, core.ErrDuplicateKey):
			core.Conflict(w, duplicateFieldName(err))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToAccountResponse(account))
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == "" {
		core.Unauthorized(w, "")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.ChangePassword(
		r.Context(),
		subject,
		req.CurrentPassword,
		req.NewPassword,
	)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			core.Unauthorized(w, "invalid credentials")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "account")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, nil)
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == "" {
		core.Unauthorized(w, "")
		return
	}

	if err := h.service.VerifyEmail(r.Context(), subject); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "account")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, nil)
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == "" {
		core.Unauthorized(w, "")
		return
	}

	account, err := h.service.GetProfile(r.Context(), subject)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "account")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	err = h.service.Delete(
		r.Context(),
		subject,
		middleware.GetRole(r.Context()),
		account.ID,
	)
	if err != nil {
		h.writeDeleteError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == "" {
		core.Unauthorized(w, "")
		return
	}

	targetID := chi.URLParam(r, "accountID")

	err := h.service.Delete(
		r.Context(),
		subject,
		middleware.GetRole(r.Context()),
		targetID,
	)
	if err != nil {
		h.writeDeleteError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeDeleteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "account deletion requires admin rank")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "account")
	default:
		core.InternalServerError(w, err)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListAccountsParams{
		Search: r.URL.Query().Get("search"),
		Role:   r.URL.Query().Get("role"),
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
		params.PageSize = size
	}

	accounts, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, AccountListResponse{
		Accounts: ToAccountResponseList(accounts),
		Total:    total,
	})
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "accountID")

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	account, err := h.service.UpdateRole(r.Context(), targetID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "unknown role")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "account")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToAccountResponse(account))
}

// RequestPasswordReset always reports success for a well-formed request;
// the reset token travels out of band, never in the response body.
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req RequestPasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if _, err := h.service.RequestPasswordReset(r.Context(), req.Username); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, nil)
}

func (h *Handler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			core.Unauthorized(w, "invalid or expired reset token")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, nil)
}

// duplicateFieldName recovers the conflicting field from the wrapped
// repository error message for the conflict response.
func duplicateFieldName(err error) string {
	msg := err.Error()
	for _, field := range []string{"username", "email"} {
		if strings.Contains(msg, field) {
			return field
		}
	}
	return "account"
}
