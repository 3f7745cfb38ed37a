package marketplace

import "time"

const (
	ListingGiveAway = "GIVE_AWAY"
	ListingSwap     = "SWAP"
	ListingOpen     = "OPEN"

	ListingPending   = "PENDING"
	ListingClaimed   = "CLAIMED"
	ListingApproved  = "APPROVED"
	ListingRejected  = "REJECTED"
	ListingCancelled = "CANCELLED"
	ListingExpired   = "EXPIRED"

	SwapPendingPeer    = "PENDING_PEER"
	SwapPendingManager = "PENDING_MANAGER"
	SwapApproved       = "APPROVED"
	SwapRejected       = "REJECTED"
	SwapCancelled      = "CANCELLED"
)

type Listing struct {
	ID          string    `json:"id"`
	ShiftID     string    `json:"shiftId"`
	FromWorker  string    `json:"fromWorker"`
	ToWorker    string    `json:"toWorker,omitempty"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason,omitempty"`
	ManagerNote string    `json:"managerNote,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SwapRequest struct {
	ID               string    `json:"id"`
	FromAssignmentID string    `json:"fromAssignmentId"`
	ToAssignmentID   string    `json:"toAssignmentId"`
	FromWorker       string    `json:"fromWorker"`
	ToWorker         string    `json:"toWorker"`
	Status           string    `json:"status"`
	PeerConfirmed    bool      `json:"peerConfirmed"`
	Reason           string    `json:"reason,omitempty"`
	ManagerNote      string    `json:"managerNote,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ShiftInfo is the slice of shift state the marketplace needs for its guards.
type ShiftInfo struct {
	ID      string
	StoreID string
	Start   time.Time
	End     time.Time
}

type StorePolicy struct {
	ID                  string
	ManagerID           string
	MinHoursBeforeGive  int
	AllowCrossStoreSwap bool
}

type AssignmentDetail struct {
	ID         string
	ShiftID    string
	WorkerID   string
	StoreID    string
	ShiftStart time.Time
	ShiftEnd   time.Time
}

// Window is an assigned work interval, used for double-booking checks.
type Window struct {
	ShiftID string
	Start   time.Time
	End     time.Time
}
