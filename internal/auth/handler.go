// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/zyclope0/mathakine-sub004/internal/core"
	"github.com/zyclope0/mathakine-sub004/internal/middleware"
)

type Handler struct {
	service   *Service
	cookies   *CookieManager
	accessTTL time.Duration
	validator *validator.Validate
}

func NewHandler(
	service *Service,
	cookies *CookieManager,
	accessTTL time.Duration,
) *Handler {
	return &Handler{
		service:   service,
		cookies:   cookies,
		accessTTL: accessTTL,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
			r.Post("/logout", h.Logout)
		})
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(
				w,
				core.UnauthorizedError("invalid credentials"),
			)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.cookies.SetRefresh(w, result.RefreshToken)

	core.OK(w, LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.accessTTL / time.Second),
		User:        ToIdentityResponse(result.Identity),
	})
}

// Refresh accepts the refresh token only via its cookie. A request with
// no cookie fails before any token decoding happens.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := h.cookies.ReadRefresh(r)
	if err != nil {
		core.JSONError(w, core.UnauthorizedError("missing refresh cookie"))
		return
	}

	accessToken, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, core.ErrTokenInvalid) {
			core.JSONError(w, core.TokenInvalidError())
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, RefreshResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.accessTTL / time.Second),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSubject(r.Context()) == "" {
		core.Unauthorized(w, "")
		return
	}

	h.cookies.Clear(w)
	core.OK(w, nil)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	if subject == "" {
		core.Unauthorized(w, "")
		return
	}

	identity, err := h.service.Identity(r.Context(), subject)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "account")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToIdentityResponse(*identity))
}
