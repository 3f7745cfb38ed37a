package schedulehandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shiftdesk/internal/domain/audit"
	"shiftdesk/internal/domain/auth"
	"shiftdesk/internal/domain/notifications"
	"shiftdesk/internal/domain/schedule"
	"shiftdesk/internal/transport/http/api"
	"shiftdesk/internal/transport/http/middleware"
	"shiftdesk/internal/transport/http/shared"
)

type Handler struct {
	Service *schedule.Service
	Notify  *notifications.Service
	Audit   *audit.Service
}

func NewHandler(service *schedule.Service, notify *notifications.Service, auditor *audit.Service) *Handler {
	return &Handler{Service: service, Notify: notify, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/shifts", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListShifts)
		r.Get("/{shiftID}", h.handleGetShift)
		r.Get("/{shiftID}/assignments", h.handleListAssignments)
		r.Put("/{shiftID}/assignments/status", h.handleAssignmentStatus)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleOwner, auth.RoleManager))
			r.Post("/", h.handleCreateShift)
			r.Put("/{shiftID}", h.handleUpdateShift)
			r.Post("/{shiftID}/assignments", h.handleAssignStaff)
			r.Delete("/{shiftID}/assignments/{workerID}", h.handleRemoveAssignment)
		})
	})

	r.Route("/templates", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListTemplates)
		r.With(middleware.RequireRole(auth.RoleOwner, auth.RoleManager)).Post("/", h.handleCreateTemplate)
		r.Post("/{templateID}/registrations", h.handleRegister)
		r.Delete("/{templateID}/registrations", h.handleCancelRegistration)
		r.Get("/{templateID}/registrations", h.handleListRegistrations)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListTasks)
		r.With(middleware.RequireRole(auth.RoleOwner, auth.RoleManager)).Post("/", h.handleCreateTask)
		r.Post("/{taskID}/complete", h.handleCompleteTask)
	})
}

func (h *Handler) record(r *http.Request, actor auth.Actor, action, entityType, entityID string, details any) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Audit.Record(r.Context(), actor.UserID, action, entityType, entityID, reqID, details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) notify(r *http.Request, workerID, title, message, link string) {
	if err := h.Notify.Notify(r.Context(), workerID, title, message, link); err != nil {
		slog.Warn("notification failed", "workerId", workerID, "err", err)
	}
}

func (h *Handler) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var input schedule.ShiftInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	id, err := h.Service.CreateShift(r.Context(), actor, input)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "shift.create", "shift", id, nil)
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdateShift(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	var input schedule.ShiftInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	if err := h.Service.UpdateShift(r.Context(), actor, shiftID, input.Start, input.End, input.RequiredSlots); err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "shift.update", "shift", shiftID, nil)
	api.Success(w, map[string]string{"id": shiftID}, reqID)
}

func (h *Handler) handleGetShift(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	shift, err := h.Service.GetShift(r.Context(), actor, chi.URLParam(r, "shiftID"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, shift, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListShifts(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	from, to, err := shared.ParseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_input", "invalid date range", reqID)
		return
	}

	shifts, err := h.Service.ListShifts(r.Context(), actor, r.URL.Query().Get("storeId"), from, to)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, shifts, reqID)
}

type assignRequest struct {
	WorkerIDs []string `json:"workerIds"`
}

func (h *Handler) handleAssignStaff(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	var payload assignRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	result, err := h.Service.AssignStaff(r.Context(), actor, shiftID, payload.WorkerIDs)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	for _, workerID := range result.Assigned {
		h.notify(r, workerID, "Shift assigned", "You have been assigned to a shift. Check your schedule.", "/shifts/"+shiftID)
	}
	h.record(r, actor, "shift.assign", "shift", shiftID, result)
	api.Success(w, result, reqID)
}

func (h *Handler) handleRemoveAssignment(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	shiftID := chi.URLParam(r, "shiftID")
	workerID := chi.URLParam(r, "workerID")

	if err := h.Service.RemoveAssignment(r.Context(), actor, shiftID, workerID); err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.notify(r, workerID, "Shift unassigned", "You have been removed from a shift.", "/shifts/"+shiftID)
	h.record(r, actor, "shift.unassign", "shift", shiftID, map[string]string{"workerId": workerID})
	api.Success(w, map[string]string{"id": shiftID}, reqID)
}

func (h *Handler) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	assignments, err := h.Service.ListAssignments(r.Context(), actor, chi.URLParam(r, "shiftID"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, assignments, middleware.GetRequestID(r.Context()))
}

type assignmentStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	var payload assignmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	if err := h.Service.UpdateAssignmentStatus(r.Context(), actor, shiftID, payload.Status); err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "assignment.status", "shift", shiftID, payload)
	api.Success(w, map[string]string{"status": payload.Status}, reqID)
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var input schedule.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	id, err := h.Service.CreateTemplate(r.Context(), actor, input)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "template.create", "template", id, nil)
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	templates, err := h.Service.ListTemplates(r.Context(), actor, r.URL.Query().Get("storeId"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, templates, middleware.GetRequestID(r.Context()))
}

type registrationRequest struct {
	Date string `json:"date"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	templateID := chi.URLParam(r, "templateID")

	var payload registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	date, err := shared.ParseDate(payload.Date)
	if err != nil || date.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_input", "date is required (YYYY-MM-DD)", reqID)
		return
	}

	id, err := h.Service.RegisterShift(r.Context(), actor, templateID, date)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "registration.create", "template", templateID, payload)
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleCancelRegistration(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	templateID := chi.URLParam(r, "templateID")

	date, err := shared.ParseDate(r.URL.Query().Get("date"))
	if err != nil || date.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_input", "date is required (YYYY-MM-DD)", reqID)
		return
	}

	if err := h.Service.CancelRegistration(r.Context(), actor, templateID, date); err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "registration.cancel", "template", templateID, nil)
	api.Success(w, map[string]string{"id": templateID}, reqID)
}

func (h *Handler) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	templateID := chi.URLParam(r, "templateID")

	date, err := shared.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_input", "invalid date", reqID)
		return
	}

	registrations, err := h.Service.ListRegistrations(r.Context(), actor, templateID, date)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}
	api.Success(w, registrations, reqID)
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var input schedule.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	task, err := h.Service.CreateTask(r.Context(), actor, input)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.notify(r, task.WorkerID, "New task", "You have a new task: "+task.Title, "/tasks/"+task.ID)
	h.record(r, actor, "task.create", "task", task.ID, nil)
	api.Created(w, task, reqID)
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	q := r.URL.Query()
	tasks, err := h.Service.ListTasks(r.Context(), actor, q.Get("storeId"), q.Get("workerId"), q.Get("status"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, tasks, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	task, err := h.Service.CompleteTask(r.Context(), actor, chi.URLParam(r, "taskID"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "task.complete", "task", task.ID, nil)
	api.Success(w, task, reqID)
}
