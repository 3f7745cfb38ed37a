package marketplace

import (
	"errors"
	"testing"
	"time"
)

func TestCheckGiveWindow(t *testing.T) {
	shiftStart := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	// 08:00 with a 2h policy: exactly at the boundary, allowed.
	if err := CheckGiveWindow(shiftStart.Add(-2*time.Hour), shiftStart, 2); err != nil {
		t.Fatalf("expected 2h notice to pass, got %v", err)
	}
	// 08:00 -> 10:00 shift with min 2h but now 08:30: rejected.
	if err := CheckGiveWindow(shiftStart.Add(-90*time.Minute), shiftStart, 2); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short notice, got %v", err)
	}
	// Shift already started.
	if err := CheckGiveWindow(shiftStart.Add(time.Minute), shiftStart, 2); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for started shift, got %v", err)
	}
}

func TestListingExpiresAt(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	want := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if got := ListingExpiresAt(start); !got.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, got)
	}
}

func TestHasOverlap(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	windows := []Window{
		{ShiftID: "sh1", Start: base, End: base.Add(4 * time.Hour)},
		{ShiftID: "sh2", Start: base.Add(6 * time.Hour), End: base.Add(10 * time.Hour)},
	}

	if !HasOverlap(windows, base.Add(2*time.Hour), base.Add(5*time.Hour)) {
		t.Fatal("expected overlap with sh1")
	}
	if !HasOverlap(windows, base, base.Add(4*time.Hour)) {
		t.Fatal("a window on the same interval must count as overlapping")
	}
	if HasOverlap(windows, base.Add(4*time.Hour), base.Add(6*time.Hour)) {
		t.Fatal("back-to-back intervals must not overlap")
	}
}

func TestActivePredicates(t *testing.T) {
	for _, status := range []string{ListingPending, ListingClaimed} {
		if !ListingActive(status) {
			t.Fatalf("expected %s to be active", status)
		}
	}
	for _, status := range []string{ListingApproved, ListingRejected, ListingCancelled, ListingExpired} {
		if ListingActive(status) {
			t.Fatalf("expected %s to be inactive", status)
		}
	}
	if !SwapActive(SwapPendingPeer) || !SwapActive(SwapPendingManager) {
		t.Fatal("pending swap statuses must be active")
	}
	if SwapActive(SwapApproved) || SwapActive(SwapRejected) || SwapActive(SwapCancelled) {
		t.Fatal("resolved swap statuses must be inactive")
	}
}
