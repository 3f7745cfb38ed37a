package marketplace

import (
	"context"
	"time"
)

type StoreAPI interface {
	ShiftInfo(ctx context.Context, shiftID string) (ShiftInfo, error)
	StorePolicy(ctx context.Context, storeID string) (StorePolicy, error)
	WorkerStoreID(ctx context.Context, workerID string) (string, error)

	AssignmentByShiftWorker(ctx context.Context, shiftID, workerID string) (AssignmentDetail, error)
	AssignmentByID(ctx context.Context, assignmentID string) (AssignmentDetail, error)
	WorkerWindows(ctx context.Context, workerID string, from time.Time) ([]Window, error)

	HasActiveListing(ctx context.Context, shiftID string) (bool, error)
	CreateListing(ctx context.Context, shiftID, fromWorker, listingType, reason string, expiresAt time.Time) (string, error)
	GetListing(ctx context.Context, listingID string) (Listing, error)
	ListListings(ctx context.Context, storeID, status string) ([]Listing, error)
	// ClaimListing conditionally moves PENDING -> CLAIMED; reports false when
	// the listing was no longer PENDING (lost race or already resolved).
	ClaimListing(ctx context.Context, listingID, toWorker string) (bool, error)
	// UpdateListingStatus conditionally moves fromStatus -> toStatus and
	// returns ErrInvalidState when the listing was resolved concurrently.
	UpdateListingStatus(ctx context.Context, listingID, fromStatus, toStatus, managerNote string) error
	// ApproveListingTransfer atomically marks the listing APPROVED, removes the
	// holder's assignment and creates a CONFIRMED assignment for the claimer.
	ApproveListingTransfer(ctx context.Context, listingID, shiftID, fromWorker, toWorker, managerNote string) error
	// ExpireListings marks due PENDING listings EXPIRED and returns their ids.
	ExpireListings(ctx context.Context, now time.Time) ([]string, error)

	HasActiveSwap(ctx context.Context, assignmentID string) (bool, error)
	CreateSwapRequest(ctx context.Context, fromAssignment, toAssignment, fromWorker, toWorker, reason string) (string, error)
	GetSwapRequest(ctx context.Context, swapID string) (SwapRequest, error)
	ListSwapRequests(ctx context.Context, workerID, status string) ([]SwapRequest, error)
	// UpdateSwapStatus conditionally moves fromStatus -> toStatus and returns
	// ErrInvalidState when the request was resolved concurrently.
	UpdateSwapStatus(ctx context.Context, swapID, fromStatus, toStatus string, peerConfirmed bool, managerNote string) error
	// ApproveSwapExchange atomically marks the request APPROVED and exchanges
	// the worker fields of the two assignments in place.
	ApproveSwapExchange(ctx context.Context, swapID, fromAssignment, toAssignment, fromWorker, toWorker, managerNote string) error
}
