package payrollhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shiftdesk/internal/domain/audit"
	"shiftdesk/internal/domain/auth"
	"shiftdesk/internal/domain/notifications"
	"shiftdesk/internal/domain/payroll"
	"shiftdesk/internal/transport/http/api"
	"shiftdesk/internal/transport/http/middleware"
)

type Handler struct {
	Service *payroll.Service
	Notify  *notifications.Service
	Audit   *audit.Service
}

func NewHandler(service *payroll.Service, notify *notifications.Service, auditor *audit.Service) *Handler {
	return &Handler{Service: service, Notify: notify, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payrolls", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/{payrollID}", h.handleGetPayroll)
		r.Get("/{payrollID}/payslip", h.handlePayslip)
		r.Get("/summary", h.handlePeriodSummary)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleOwner, auth.RoleManager))
			r.Get("/", h.handleListPayrolls)
			r.Post("/generate", h.handleGenerate)
			r.Put("/{payrollID}", h.handleUpdate)
			r.Post("/adjustments", h.handleCreateAdjustment)
			r.Get("/rules/{storeID}", h.handleGetRule)
			r.Put("/rules/{storeID}", h.handleSetRule)
		})
	})
}

func (h *Handler) record(r *http.Request, actor auth.Actor, action, entityType, entityID string, details any) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Audit.Record(r.Context(), actor.UserID, action, entityType, entityID, reqID, details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) notifyStatus(r *http.Request, p payroll.Payroll) {
	c := notifications.PayrollCopy(p.Status)
	if err := h.Notify.Notify(r.Context(), p.WorkerID, c.Title, c.Message, "/payrolls/"+p.ID); err != nil {
		slog.Warn("payroll notification failed", "payrollId", p.ID, "err", err)
	}
}

type generateRequest struct {
	Month   string `json:"month"`
	StoreID string `json:"storeId"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload generateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	payrolls, err := h.Service.Generate(r.Context(), actor, payload.Month, payload.StoreID)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "payroll.generate", "payroll", payload.Month, payload)
	api.Success(w, payrolls, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	payrollID := chi.URLParam(r, "payrollID")

	var input payroll.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	updated, err := h.Service.Update(r.Context(), actor, payrollID, input)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	if input.Status != nil {
		h.notifyStatus(r, updated)
	}
	h.record(r, actor, "payroll.update", "payroll", payrollID, input)
	api.Success(w, updated, reqID)
}

func (h *Handler) handleGetPayroll(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	p, err := h.Service.GetPayroll(r.Context(), actor, chi.URLParam(r, "payrollID"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, p, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPayrolls(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	q := r.URL.Query()
	payrolls, err := h.Service.ListPayrolls(r.Context(), actor, q.Get("month"), q.Get("storeId"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, payrolls, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	payrollID := chi.URLParam(r, "payrollID")

	path, err := h.Service.GeneratePayslipPDF(r.Context(), actor, payrollID)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "payroll.payslip", "payroll", payrollID, nil)
	api.Success(w, map[string]string{"path": path}, reqID)
}

func (h *Handler) handlePeriodSummary(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()

	summary, err := h.Service.PeriodSummary(r.Context(), actor, q.Get("workerId"), q.Get("month"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, summary, reqID)
}

type adjustmentRequest struct {
	WorkerID string  `json:"workerId"`
	Month    string  `json:"month"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Reason   string  `json:"reason"`
}

func (h *Handler) handleCreateAdjustment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload adjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	adj, err := h.Service.CreateAdjustment(r.Context(), actor, payload.WorkerID, payload.Month, payload.Type, payload.Amount, payload.Reason)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "payroll.adjustment", "adjustment", adj.ID, payload)
	api.Created(w, adj, reqID)
}

func (h *Handler) handleSetRule(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	storeID := chi.URLParam(r, "storeID")

	var input payroll.RuleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	rule, err := h.Service.SetRule(r.Context(), actor, storeID, input)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "payroll.rule", "store", storeID, input)
	api.Success(w, rule, reqID)
}

func (h *Handler) handleGetRule(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	rule, err := h.Service.GetRule(r.Context(), actor, chi.URLParam(r, "storeID"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rule, middleware.GetRequestID(r.Context()))
}
