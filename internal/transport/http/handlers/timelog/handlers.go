package timeloghandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shiftdesk/internal/domain/audit"
	"shiftdesk/internal/domain/auth"
	"shiftdesk/internal/domain/timelog"
	"shiftdesk/internal/transport/http/api"
	"shiftdesk/internal/transport/http/middleware"
	"shiftdesk/internal/transport/http/shared"
)

type Handler struct {
	Service *timelog.Service
	Audit   *audit.Service
}

func NewHandler(service *timelog.Service, auditor *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/timelogs", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/check-in", h.handleCheckIn)
		r.Post("/check-out", h.handleCheckOut)
		r.Get("/", h.handleListLogs)
		r.Get("/workers/{workerID}/summary", h.handleWorkerSummary)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleOwner, auth.RoleManager))
			r.Post("/manual", h.handleManualLog)
			r.Get("/stores/{storeID}/summary", h.handleStoreSummary)
		})
	})
}

func (h *Handler) record(r *http.Request, actor auth.Actor, action, entityID string, details any) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Audit.Record(r.Context(), actor.UserID, action, "timelog", entityID, reqID, details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

type checkInRequest struct {
	ShiftID string `json:"shiftId"`
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	log, err := h.Service.CheckIn(r.Context(), actor, payload.ShiftID)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "timelog.check_in", log.ID, payload)
	api.Created(w, log, reqID)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	log, err := h.Service.CheckOut(r.Context(), actor)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "timelog.check_out", log.ID, nil)
	api.Success(w, log, reqID)
}

func (h *Handler) handleManualLog(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var input timelog.ManualLogInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	log, err := h.Service.CreateManualLog(r.Context(), actor, input)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "timelog.manual", log.ID, input)
	api.Created(w, log, reqID)
}

func (h *Handler) handleListLogs(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()

	from, to, err := shared.ParseRange(q.Get("from"), q.Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_input", "invalid date range", reqID)
		return
	}

	logs, err := h.Service.ListLogs(r.Context(), actor, q.Get("workerId"), q.Get("storeId"), from, to)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, logs, reqID)
}

func (h *Handler) handleWorkerSummary(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	from, to, err := shared.ParseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_input", "invalid date range", reqID)
		return
	}

	summary, err := h.Service.WorkerSummary(r.Context(), actor, chi.URLParam(r, "workerID"), from, to)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, summary, reqID)
}

func (h *Handler) handleStoreSummary(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	from, to, err := shared.ParseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_input", "invalid date range", reqID)
		return
	}

	summary, err := h.Service.StoreSummary(r.Context(), actor, chi.URLParam(r, "storeID"), from, to)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, summary, reqID)
}
