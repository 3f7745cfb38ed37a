package rankinghandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"shiftdesk/internal/domain/auth"
	"shiftdesk/internal/domain/ranking"
	"shiftdesk/internal/transport/http/api"
	"shiftdesk/internal/transport/http/middleware"
	"shiftdesk/internal/transport/http/shared"
)

type Handler struct {
	Service *ranking.Service
}

func NewHandler(service *ranking.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.RoleOwner, auth.RoleManager)).
		Get("/ranking", h.handleRank)
}

func (h *Handler) handleRank(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()

	from, to, err := shared.ParseRange(q.Get("from"), q.Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_input", "invalid date range", reqID)
		return
	}

	ranked, err := h.Service.Rank(r.Context(), actor, q.Get("storeId"), from, to)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, ranked, reqID)
}
