package payroll

const (
	StatusDraft    = "DRAFT"
	StatusApproved = "APPROVED"
	StatusPaid     = "PAID"

	AdjustmentBonus   = "BONUS"
	AdjustmentPenalty = "PENALTY"

	// Months are keyed as YYYY-MM.
	MonthLayout = "2006-01"
)
