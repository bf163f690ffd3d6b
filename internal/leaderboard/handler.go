// AngelaMos | 2026
// handler.go

package leaderboard

import (
	"net/http"
	"strconv"

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
	r.Route("/leaderboard", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(withScope)

		r.Get("/", h.Top)
		r.Get("/me", h.MyRank)
	})
}

func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ctx := r.Context()
	entries, err := h.service.Top(
		ctx,
		middleware.GetRole(ctx),
		middleware.GetScope(ctx),
		limit,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, entries)
}

func (h *Handler) MyRank(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry, err := h.service.RankOf(
		ctx,
		middleware.GetRole(ctx),
		middleware.GetScope(ctx),
		middleware.GetSubject(ctx),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, entry)
}
