package notifications

// Copy is a human-readable title/message pair for one status transition.
type Copy struct {
	Title   string
	Message string
}

var listingCopy = map[string]Copy{
	"PENDING":   {"Shift listed", "Your shift has been posted to the marketplace."},
	"CLAIMED":   {"Shift claimed", "A coworker wants to take your shift. Waiting for manager approval."},
	"APPROVED":  {"Transfer approved", "The shift transfer was approved. Check your schedule."},
	"REJECTED":  {"Transfer rejected", "The manager rejected the shift transfer. The shift is still yours."},
	"CANCELLED": {"Listing cancelled", "The shift listing was cancelled."},
	"EXPIRED":   {"Listing expired", "The shift listing expired without being picked up."},
}

var swapCopy = map[string]Copy{
	"PENDING_PEER":    {"Swap requested", "A coworker proposed a shift swap with you."},
	"PENDING_MANAGER": {"Swap confirmed", "Both workers agreed to the swap. Waiting for manager approval."},
	"APPROVED":        {"Swap approved", "The shift swap was approved. Check your schedule."},
	"REJECTED":        {"Swap rejected", "The shift swap was declined."},
	"CANCELLED":       {"Swap cancelled", "The shift swap request was cancelled."},
}

var payrollCopy = map[string]Copy{
	"DRAFT":    {"Payroll generated", "Your payroll draft for the month is ready."},
	"APPROVED": {"Payroll approved", "Your payroll has been approved."},
	"PAID":     {"Payroll paid", "Your pay has been sent."},
}

// ListingCopy returns the message for a listing status. The fallback keeps
// an unknown status from producing an empty notification.
func ListingCopy(status string) Copy {
	if c, ok := listingCopy[status]; ok {
		return c
	}
	return Copy{Title: "Shift listing update", Message: "Your shift listing changed to " + status + "."}
}

func SwapCopy(status string) Copy {
	if c, ok := swapCopy[status]; ok {
		return c
	}
	return Copy{Title: "Shift swap update", Message: "Your swap request changed to " + status + "."}
}

func PayrollCopy(status string) Copy {
	if c, ok := payrollCopy[status]; ok {
		return c
	}
	return Copy{Title: "Payroll update", Message: "Your payroll changed to " + status + "."}
}
