package corehandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shiftdesk/internal/domain/audit"
	"shiftdesk/internal/domain/auth"
	"shiftdesk/internal/domain/core"
	"shiftdesk/internal/transport/http/api"
	"shiftdesk/internal/transport/http/middleware"
)

type Handler struct {
	Service *core.Service
	Audit   *audit.Service
}

func NewHandler(service *core.Service, auditor *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/workers", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleOwner, auth.RoleManager))
		r.Get("/", h.handleListWorkers)
		r.Post("/", h.handleCreateWorker)
		r.Get("/{workerID}", h.handleGetWorker)
		r.Put("/{workerID}", h.handleUpdateWorker)
		r.Delete("/{workerID}", h.handleDeactivateWorker)
	})

	r.Route("/stores", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListStores)
		r.Get("/{storeID}", h.handleGetStore)
		r.With(middleware.RequireRole(auth.RoleOwner)).Post("/", h.handleCreateStore)
		r.With(middleware.RequireRole(auth.RoleOwner, auth.RoleManager)).Put("/{storeID}", h.handleUpdateStore)
		r.With(middleware.RequireRole(auth.RoleOwner)).Delete("/{storeID}", h.handleDeleteStore)
	})
}

func (h *Handler) record(r *http.Request, actor auth.Actor, action, entityType, entityID string, details any) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Audit.Record(r.Context(), actor.UserID, action, entityType, entityID, reqID, details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	workers, err := h.Service.ListWorkers(r.Context(), actor, r.URL.Query().Get("storeId"), includeInactive)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, workers, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateWorker(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var input core.WorkerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	id, err := h.Service.CreateWorker(r.Context(), actor, input)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "worker.create", "worker", id, map[string]string{"email": input.Email, "role": input.Role})
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleGetWorker(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	worker, err := h.Service.GetWorker(r.Context(), actor, chi.URLParam(r, "workerID"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, worker, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateWorker(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	workerID := chi.URLParam(r, "workerID")

	var input core.WorkerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	if err := h.Service.UpdateWorker(r.Context(), actor, workerID, input); err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "worker.update", "worker", workerID, nil)
	api.Success(w, map[string]string{"id": workerID}, reqID)
}

func (h *Handler) handleDeactivateWorker(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	workerID := chi.URLParam(r, "workerID")

	if err := h.Service.DeactivateWorker(r.Context(), actor, workerID); err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "worker.deactivate", "worker", workerID, nil)
	api.Success(w, map[string]string{"id": workerID}, reqID)
}

func (h *Handler) handleListStores(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	stores, err := h.Service.ListStores(r.Context(), actor)
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, stores, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetStore(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	store, err := h.Service.GetStore(r.Context(), actor, chi.URLParam(r, "storeID"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, store, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var input core.StoreInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	id, err := h.Service.CreateStore(r.Context(), actor, input)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "store.create", "store", id, map[string]string{"name": input.Name})
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdateStore(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	storeID := chi.URLParam(r, "storeID")

	var input core.StoreInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	if err := h.Service.UpdateStore(r.Context(), actor, storeID, input); err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "store.update", "store", storeID, nil)
	api.Success(w, map[string]string{"id": storeID}, reqID)
}

func (h *Handler) handleDeleteStore(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	storeID := chi.URLParam(r, "storeID")

	if err := h.Service.DeleteStore(r.Context(), actor, storeID); err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "store.delete", "store", storeID, nil)
	api.Success(w, map[string]string{"id": storeID}, reqID)
}
