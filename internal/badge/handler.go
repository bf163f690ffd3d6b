// AngelaMos | 2026
// handler.go

package badge

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zyclope0/mathakine-sub004/internal/core"
	"github.com/zyclope0/mathakine-sub004/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	withScope func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(withScope)

		r.Get("/badges", h.List)
		r.Get("/badges/me", h.ListMine)
		r.Get("/stats", h.Stats)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	badges, err := h.service.List(
		ctx,
		middleware.GetRole(ctx),
		middleware.GetScope(ctx),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, badges)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	badges, err := h.service.ListMine(
		ctx,
		middleware.GetSubject(ctx),
		middleware.GetRole(ctx),
		middleware.GetScope(ctx),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "account")
			return
		}
		core.JSONError(w, err)
		return
	}

	core.OK(w, badges)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.service.Stats(
		ctx,
		middleware.GetRole(ctx),
		middleware.GetScope(ctx),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, stats)
}
