package notifications

import "testing"

func TestListingCopyKnownStatuses(t *testing.T) {
	for _, status := range []string{"PENDING", "CLAIMED", "APPROVED", "REJECTED", "CANCELLED", "EXPIRED"} {
		c := ListingCopy(status)
		if c.Title == "" || c.Message == "" {
			t.Fatalf("empty copy for listing status %s", status)
		}
	}
}

func TestSwapCopyKnownStatuses(t *testing.T) {
	for _, status := range []string{"PENDING_PEER", "PENDING_MANAGER", "APPROVED", "REJECTED", "CANCELLED"} {
		c := SwapCopy(status)
		if c.Title == "" || c.Message == "" {
			t.Fatalf("empty copy for swap status %s", status)
		}
	}
}

func TestCopyFallback(t *testing.T) {
	c := ListingCopy("SOMETHING_NEW")
	if c.Title == "" || c.Message == "" {
		t.Fatal("fallback copy must not be empty")
	}
	if p := PayrollCopy("VOID"); p.Message == "" {
		t.Fatal("payroll fallback copy must not be empty")
	}
}
