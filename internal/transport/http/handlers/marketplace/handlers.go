package markethandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shiftdesk/internal/domain/audit"
	"shiftdesk/internal/domain/auth"
	"shiftdesk/internal/domain/marketplace"
	"shiftdesk/internal/domain/notifications"
	"shiftdesk/internal/transport/http/api"
	"shiftdesk/internal/transport/http/middleware"
)

type Handler struct {
	Service *marketplace.Service
	Notify  *notifications.Service
	Audit   *audit.Service
}

func NewHandler(service *marketplace.Service, notify *notifications.Service, auditor *audit.Service) *Handler {
	return &Handler{Service: service, Notify: notify, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/marketplace", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", h.handleListListings)
			r.Post("/", h.handleCreateListing)
			r.Get("/{listingID}", h.handleGetListing)
			r.Post("/{listingID}/claim", h.handleClaim)
			r.Post("/{listingID}/cancel", h.handleCancelListing)
			r.With(middleware.RequireRole(auth.RoleOwner, auth.RoleManager)).
				Post("/{listingID}/review", h.handleReviewListing)
		})

		r.Route("/swaps", func(r chi.Router) {
			r.Get("/", h.handleListSwaps)
			r.Post("/", h.handleCreateSwap)
			r.Get("/{swapID}", h.handleGetSwap)
			r.Post("/{swapID}/respond", h.handleRespondSwap)
			r.Post("/{swapID}/cancel", h.handleCancelSwap)
			r.With(middleware.RequireRole(auth.RoleOwner, auth.RoleManager)).
				Post("/{swapID}/review", h.handleReviewSwap)
		})
	})
}

func (h *Handler) record(r *http.Request, actor auth.Actor, action, entityType, entityID string, details any) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Audit.Record(r.Context(), actor.UserID, action, entityType, entityID, reqID, details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

// notifyListing fans a listing status change out to the involved workers.
// Delivery is best effort; the state change has already committed.
func (h *Handler) notifyListing(r *http.Request, l marketplace.Listing, workerIDs ...string) {
	c := notifications.ListingCopy(l.Status)
	for _, workerID := range workerIDs {
		if workerID == "" {
			continue
		}
		if err := h.Notify.Notify(r.Context(), workerID, c.Title, c.Message, "/marketplace/listings/"+l.ID); err != nil {
			slog.Warn("listing notification failed", "listingId", l.ID, "workerId", workerID, "err", err)
		}
	}
}

func (h *Handler) notifySwap(r *http.Request, s marketplace.SwapRequest, workerIDs ...string) {
	c := notifications.SwapCopy(s.Status)
	for _, workerID := range workerIDs {
		if workerID == "" {
			continue
		}
		if err := h.Notify.Notify(r.Context(), workerID, c.Title, c.Message, "/marketplace/swaps/"+s.ID); err != nil {
			slog.Warn("swap notification failed", "swapId", s.ID, "workerId", workerID, "err", err)
		}
	}
}

type createListingRequest struct {
	ShiftID string `json:"shiftId"`
	Type    string `json:"type"`
	Reason  string `json:"reason"`
}

func (h *Handler) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	listing, err := h.Service.CreateListing(r.Context(), actor, payload.ShiftID, payload.Type, payload.Reason)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.record(r, actor, "listing.create", "listing", listing.ID, payload)
	api.Created(w, listing, reqID)
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	listing, err := h.Service.Claim(r.Context(), actor, chi.URLParam(r, "listingID"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.notifyListing(r, listing, listing.FromWorker)
	h.record(r, actor, "listing.claim", "listing", listing.ID, nil)
	api.Success(w, listing, reqID)
}

type reviewRequest struct {
	Approve     bool   `json:"approve"`
	ManagerNote string `json:"managerNote"`
}

func (h *Handler) handleReviewListing(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	listing, err := h.Service.Review(r.Context(), actor, chi.URLParam(r, "listingID"), payload.Approve, payload.ManagerNote)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.notifyListing(r, listing, listing.FromWorker, listing.ToWorker)
	h.record(r, actor, "listing.review", "listing", listing.ID, payload)
	api.Success(w, listing, reqID)
}

func (h *Handler) handleCancelListing(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	listing, err := h.Service.Cancel(r.Context(), actor, chi.URLParam(r, "listingID"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.notifyListing(r, listing, listing.ToWorker)
	h.record(r, actor, "listing.cancel", "listing", listing.ID, nil)
	api.Success(w, listing, reqID)
}

func (h *Handler) handleGetListing(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	listing, err := h.Service.GetListing(r.Context(), actor, chi.URLParam(r, "listingID"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, listing, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListListings(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	q := r.URL.Query()
	listings, err := h.Service.ListListings(r.Context(), actor, q.Get("storeId"), q.Get("status"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, listings, middleware.GetRequestID(r.Context()))
}

type createSwapRequest struct {
	FromAssignmentID string `json:"fromAssignmentId"`
	ToAssignmentID   string `json:"toAssignmentId"`
	Reason           string `json:"reason"`
}

func (h *Handler) handleCreateSwap(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload createSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	swap, err := h.Service.CreateSwapRequest(r.Context(), actor, payload.FromAssignmentID, payload.ToAssignmentID, payload.Reason)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.notifySwap(r, swap, swap.ToWorker)
	h.record(r, actor, "swap.create", "swap", swap.ID, payload)
	api.Created(w, swap, reqID)
}

type respondSwapRequest struct {
	Accept bool `json:"accept"`
}

func (h *Handler) handleRespondSwap(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload respondSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	swap, err := h.Service.RespondSwap(r.Context(), actor, chi.URLParam(r, "swapID"), payload.Accept)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.notifySwap(r, swap, swap.FromWorker)
	h.record(r, actor, "swap.respond", "swap", swap.ID, payload)
	api.Success(w, swap, reqID)
}

func (h *Handler) handleReviewSwap(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	var payload reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	swap, err := h.Service.ReviewSwap(r.Context(), actor, chi.URLParam(r, "swapID"), payload.Approve, payload.ManagerNote)
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.notifySwap(r, swap, swap.FromWorker, swap.ToWorker)
	h.record(r, actor, "swap.review", "swap", swap.ID, payload)
	api.Success(w, swap, reqID)
}

func (h *Handler) handleCancelSwap(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	swap, err := h.Service.CancelSwap(r.Context(), actor, chi.URLParam(r, "swapID"))
	if err != nil {
		api.FailErr(w, err, reqID)
		return
	}

	h.notifySwap(r, swap, swap.ToWorker)
	h.record(r, actor, "swap.cancel", "swap", swap.ID, nil)
	api.Success(w, swap, reqID)
}

func (h *Handler) handleGetSwap(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	swap, err := h.Service.GetSwapRequest(r.Context(), actor, chi.URLParam(r, "swapID"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, swap, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListSwaps(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())
	q := r.URL.Query()
	swaps, err := h.Service.ListSwapRequests(r.Context(), actor, q.Get("workerId"), q.Get("status"))
	if err != nil {
		api.FailErr(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, swaps, middleware.GetRequestID(r.Context()))
}
