package marketplace

import (
	"fmt"
	"time"
)

// ListingExpiresAt is the automatic expiry for a listing: one hour before the
// shift starts.
func ListingExpiresAt(shiftStart time.Time) time.Time {
	return shiftStart.Add(-time.Hour)
}

// CheckGiveWindow enforces the store's notice policy: the shift must start in
// the future and at least minHours ahead of now.
func CheckGiveWindow(now, shiftStart time.Time, minHours int) error {
	if !shiftStart.After(now) {
		return fmt.Errorf("%w: shift has already started", ErrInvalidInput)
	}
	if shiftStart.Sub(now) < time.Duration(minHours)*time.Hour {
		return fmt.Errorf("%w: listings require at least %dh notice", ErrInvalidInput, minHours)
	}
	return nil
}

// HasOverlap reports whether the interval [start, end) intersects any of the
// worker's existing windows. A window on the listed shift itself counts: a
// worker already assigned there must not claim the listing.
func HasOverlap(windows []Window, start, end time.Time) bool {
	for _, w := range windows {
		if start.Before(w.End) && w.Start.Before(end) {
			return true
		}
	}
	return false
}

// ListingActive reports whether a listing still occupies its shift's single
// active slot.
func ListingActive(status string) bool {
	return status == ListingPending || status == ListingClaimed
}

// SwapActive reports whether a swap request still blocks its assignments.
func SwapActive(status string) bool {
	return status == SwapPendingPeer || status == SwapPendingManager
}
