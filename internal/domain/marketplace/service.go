package marketplace

import (
	"context"
	"fmt"
	"time"

	"shiftdesk/internal/domain/auth"
)

type Service struct {
	store           StoreAPI
	defaultMinHours int
	now             func() time.Time
}

func NewService(store StoreAPI, defaultMinHours int) *Service {
	if defaultMinHours <= 0 {
		defaultMinHours = 2
	}
	return &Service{store: store, defaultMinHours: defaultMinHours, now: time.Now}
}

// CreateListing puts a shift on the marketplace. GIVE_AWAY and SWAP listings
// must come from the current assignment holder; OPEN listings may also be
// created by the store's manager.
func (s *Service) CreateListing(ctx context.Context, actor auth.Actor, shiftID, listingType, reason string) (Listing, error) {
	switch listingType {
	case ListingGiveAway, ListingSwap, ListingOpen:
	default:
		return Listing{}, fmt.Errorf("%w: unknown listing type %q", ErrInvalidInput, listingType)
	}

	shift, err := s.store.ShiftInfo(ctx, shiftID)
	if err != nil {
		return Listing{}, err
	}
	policy, err := s.store.StorePolicy(ctx, shift.StoreID)
	if err != nil {
		return Listing{}, err
	}
	minHours := policy.MinHoursBeforeGive
	if minHours <= 0 {
		minHours = s.defaultMinHours
	}
	if err := CheckGiveWindow(s.now(), shift.Start, minHours); err != nil {
		return Listing{}, err
	}

	if _, err := s.store.AssignmentByShiftWorker(ctx, shiftID, actor.UserID); err != nil {
		if listingType != ListingOpen || !actor.CanManageStore(shift.StoreID) {
			return Listing{}, fmt.Errorf("%w: you do not hold this shift", ErrForbidden)
		}
	}

	active, err := s.store.HasActiveListing(ctx, shiftID)
	if err != nil {
		return Listing{}, err
	}
	if active {
		return Listing{}, fmt.Errorf("%w: shift already has an active listing", ErrConflict)
	}

	expiresAt := ListingExpiresAt(shift.Start)
	id, err := s.store.CreateListing(ctx, shiftID, actor.UserID, listingType, reason, expiresAt)
	if err != nil {
		return Listing{}, err
	}
	return s.store.GetListing(ctx, id)
}

// Claim moves a PENDING listing to CLAIMED on behalf of another eligible
// worker from the same store.
func (s *Service) Claim(ctx context.Context, actor auth.Actor, listingID string) (Listing, error) {
	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		return Listing{}, err
	}
	if listing.Status != ListingPending {
		return Listing{}, fmt.Errorf("%w: listing is %s", ErrInvalidState, listing.Status)
	}

	shift, err := s.store.ShiftInfo(ctx, listing.ShiftID)
	if err != nil {
		return Listing{}, err
	}
	now := s.now()
	if !shift.Start.After(now) {
		return Listing{}, fmt.Errorf("%w: shift has already started", ErrInvalidState)
	}
	if actor.UserID == listing.FromWorker {
		return Listing{}, fmt.Errorf("%w: cannot claim your own listing", ErrForbidden)
	}
	claimerStore, err := s.store.WorkerStoreID(ctx, actor.UserID)
	if err != nil {
		return Listing{}, err
	}
	if claimerStore != shift.StoreID {
		return Listing{}, fmt.Errorf("%w: listing belongs to another store", ErrForbidden)
	}

	windows, err := s.store.WorkerWindows(ctx, actor.UserID, now)
	if err != nil {
		return Listing{}, err
	}
	if HasOverlap(windows, shift.Start, shift.End) {
		return Listing{}, fmt.Errorf("%w: you already work an overlapping shift", ErrConflict)
	}

	claimed, err := s.store.ClaimListing(ctx, listingID, actor.UserID)
	if err != nil {
		return Listing{}, err
	}
	if !claimed {
		// Lost the race: someone else claimed or the listing was resolved.
		return Listing{}, fmt.Errorf("%w: listing is no longer available", ErrInvalidState)
	}
	return s.store.GetListing(ctx, listingID)
}

// Review is the manager decision on a CLAIMED listing. Approval transfers the
// assignment to the claimer atomically with the status change.
func (s *Service) Review(ctx context.Context, actor auth.Actor, listingID string, approve bool, managerNote string) (Listing, error) {
	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		return Listing{}, err
	}
	if listing.Status != ListingClaimed {
		return Listing{}, fmt.Errorf("%w: listing is %s, expected CLAIMED", ErrInvalidState, listing.Status)
	}
	shift, err := s.store.ShiftInfo(ctx, listing.ShiftID)
	if err != nil {
		return Listing{}, err
	}
	if !actor.CanManageStore(shift.StoreID) {
		return Listing{}, ErrForbidden
	}

	if approve {
		err = s.store.ApproveListingTransfer(ctx, listingID, listing.ShiftID, listing.FromWorker, listing.ToWorker, managerNote)
	} else {
		err = s.store.UpdateListingStatus(ctx, listingID, ListingClaimed, ListingRejected, managerNote)
	}
	if err != nil {
		return Listing{}, err
	}
	return s.store.GetListing(ctx, listingID)
}

// Cancel withdraws an active listing, allowed for the holder or a manager of
// the shift's store.
func (s *Service) Cancel(ctx context.Context, actor auth.Actor, listingID string) (Listing, error) {
	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		return Listing{}, err
	}
	if !ListingActive(listing.Status) {
		return Listing{}, fmt.Errorf("%w: listing is %s", ErrInvalidState, listing.Status)
	}
	if actor.UserID != listing.FromWorker {
		shift, err := s.store.ShiftInfo(ctx, listing.ShiftID)
		if err != nil {
			return Listing{}, err
		}
		if !actor.CanManageStore(shift.StoreID) {
			return Listing{}, ErrForbidden
		}
	}
	if err := s.store.UpdateListingStatus(ctx, listingID, listing.Status, ListingCancelled, ""); err != nil {
		return Listing{}, err
	}
	return s.store.GetListing(ctx, listingID)
}

func (s *Service) GetListing(ctx context.Context, actor auth.Actor, listingID string) (Listing, error) {
	return s.store.GetListing(ctx, listingID)
}

func (s *Service) ListListings(ctx context.Context, actor auth.Actor, storeID, status string) ([]Listing, error) {
	if actor.Role != auth.RoleOwner && storeID == "" {
		storeID = actor.StoreID
	}
	return s.store.ListListings(ctx, storeID, status)
}

// ExpireDueListings is called by the background sweep. It returns the ids of
// listings it expired so the caller can fan out notifications.
func (s *Service) ExpireDueListings(ctx context.Context) ([]string, error) {
	return s.store.ExpireListings(ctx, s.now())
}

// CreateSwapRequest proposes exchanging the requester's assignment with
// another worker's assignment.
func (s *Service) CreateSwapRequest(ctx context.Context, actor auth.Actor, fromAssignmentID, toAssignmentID, reason string) (SwapRequest, error) {
	if fromAssignmentID == toAssignmentID {
		return SwapRequest{}, fmt.Errorf("%w: cannot swap an assignment with itself", ErrInvalidInput)
	}
	from, err := s.store.AssignmentByID(ctx, fromAssignmentID)
	if err != nil {
		return SwapRequest{}, err
	}
	if from.WorkerID != actor.UserID {
		return SwapRequest{}, fmt.Errorf("%w: you do not hold this assignment", ErrForbidden)
	}
	to, err := s.store.AssignmentByID(ctx, toAssignmentID)
	if err != nil {
		return SwapRequest{}, err
	}
	if to.WorkerID == actor.UserID {
		return SwapRequest{}, fmt.Errorf("%w: cannot swap with your own assignment", ErrInvalidInput)
	}
	if from.ShiftID == to.ShiftID {
		return SwapRequest{}, fmt.Errorf("%w: both assignments are on the same shift", ErrInvalidInput)
	}

	now := s.now()
	if !from.ShiftStart.After(now) || !to.ShiftStart.After(now) {
		return SwapRequest{}, fmt.Errorf("%w: both shifts must be in the future", ErrInvalidInput)
	}

	if from.StoreID != to.StoreID {
		fromPolicy, err := s.store.StorePolicy(ctx, from.StoreID)
		if err != nil {
			return SwapRequest{}, err
		}
		toPolicy, err := s.store.StorePolicy(ctx, to.StoreID)
		if err != nil {
			return SwapRequest{}, err
		}
		if !fromPolicy.AllowCrossStoreSwap || !toPolicy.AllowCrossStoreSwap {
			return SwapRequest{}, fmt.Errorf("%w: cross-store swaps are not allowed", ErrForbidden)
		}
	}

	for _, assignmentID := range []string{fromAssignmentID, toAssignmentID} {
		active, err := s.store.HasActiveSwap(ctx, assignmentID)
		if err != nil {
			return SwapRequest{}, err
		}
		if active {
			return SwapRequest{}, fmt.Errorf("%w: assignment already has an active swap request", ErrConflict)
		}
	}

	id, err := s.store.CreateSwapRequest(ctx, fromAssignmentID, toAssignmentID, from.WorkerID, to.WorkerID, reason)
	if err != nil {
		return SwapRequest{}, err
	}
	return s.store.GetSwapRequest(ctx, id)
}

// RespondSwap is the target peer's answer. Acceptance hands the request to the
// manager; decline rejects it outright.
func (s *Service) RespondSwap(ctx context.Context, actor auth.Actor, swapID string, accept bool) (SwapRequest, error) {
	swap, err := s.store.GetSwapRequest(ctx, swapID)
	if err != nil {
		return SwapRequest{}, err
	}
	if swap.Status != SwapPendingPeer {
		return SwapRequest{}, fmt.Errorf("%w: swap request is %s", ErrInvalidState, swap.Status)
	}
	if actor.UserID != swap.ToWorker {
		return SwapRequest{}, fmt.Errorf("%w: only the requested peer may respond", ErrForbidden)
	}

	if accept {
		err = s.store.UpdateSwapStatus(ctx, swapID, SwapPendingPeer, SwapPendingManager, true, "")
	} else {
		err = s.store.UpdateSwapStatus(ctx, swapID, SwapPendingPeer, SwapRejected, false, "")
	}
	if err != nil {
		return SwapRequest{}, err
	}
	return s.store.GetSwapRequest(ctx, swapID)
}

// ReviewSwap is the manager decision. Approval exchanges the two assignments'
// workers in place, atomically with the status change.
func (s *Service) ReviewSwap(ctx context.Context, actor auth.Actor, swapID string, approve bool, managerNote string) (SwapRequest, error) {
	swap, err := s.store.GetSwapRequest(ctx, swapID)
	if err != nil {
		return SwapRequest{}, err
	}
	if swap.Status != SwapPendingManager {
		return SwapRequest{}, fmt.Errorf("%w: swap request is %s, expected PENDING_MANAGER", ErrInvalidState, swap.Status)
	}
	from, err := s.store.AssignmentByID(ctx, swap.FromAssignmentID)
	if err != nil {
		return SwapRequest{}, err
	}
	if !actor.CanManageStore(from.StoreID) {
		return SwapRequest{}, ErrForbidden
	}

	if approve {
		err = s.store.ApproveSwapExchange(ctx, swapID, swap.FromAssignmentID, swap.ToAssignmentID, swap.FromWorker, swap.ToWorker, managerNote)
	} else {
		err = s.store.UpdateSwapStatus(ctx, swapID, SwapPendingManager, SwapRejected, swap.PeerConfirmed, managerNote)
	}
	if err != nil {
		return SwapRequest{}, err
	}
	return s.store.GetSwapRequest(ctx, swapID)
}

// CancelSwap lets the requester withdraw an active swap request.
func (s *Service) CancelSwap(ctx context.Context, actor auth.Actor, swapID string) (SwapRequest, error) {
	swap, err := s.store.GetSwapRequest(ctx, swapID)
	if err != nil {
		return SwapRequest{}, err
	}
	if !SwapActive(swap.Status) {
		return SwapRequest{}, fmt.Errorf("%w: swap request is %s", ErrInvalidState, swap.Status)
	}
	if actor.UserID != swap.FromWorker {
		from, err := s.store.AssignmentByID(ctx, swap.FromAssignmentID)
		if err != nil {
			return SwapRequest{}, err
		}
		if !actor.CanManageStore(from.StoreID) {
			return SwapRequest{}, ErrForbidden
		}
	}
	if err := s.store.UpdateSwapStatus(ctx, swapID, swap.Status, SwapCancelled, swap.PeerConfirmed, ""); err != nil {
		return SwapRequest{}, err
	}
	return s.store.GetSwapRequest(ctx, swapID)
}

func (s *Service) GetSwapRequest(ctx context.Context, actor auth.Actor, swapID string) (SwapRequest, error) {
	return s.store.GetSwapRequest(ctx, swapID)
}

func (s *Service) ListSwapRequests(ctx context.Context, actor auth.Actor, workerID, status string) ([]SwapRequest, error) {
	if actor.Role == auth.RoleStaff {
		workerID = actor.UserID
	}
	return s.store.ListSwapRequests(ctx, workerID, status)
}
