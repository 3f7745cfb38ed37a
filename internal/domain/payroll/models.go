package payroll

import "time"

// Payroll is the monthly pay row, one per (worker, month).
type Payroll struct {
	ID              string    `json:"id"`
	WorkerID        string    `json:"workerId"`
	WorkerName      string    `json:"workerName,omitempty"`
	StoreID         string    `json:"storeId"`
	Month           string    `json:"month"`
	TotalMinutes    int       `json:"totalMinutes"`
	HourlyRate      float64   `json:"hourlyRate"`
	GrossPay        float64   `json:"grossPay"`
	AdjustmentTotal float64   `json:"adjustmentTotal"`
	FinalPay        float64   `json:"finalPay"`
	Note            string    `json:"note,omitempty"`
	Status          string    `json:"status"`
	GeneratedAt     time.Time `json:"generatedAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Rule is the per-store shift pay rule used by the work-log formula.
type Rule struct {
	ID                         string    `json:"id"`
	StoreID                    string    `json:"storeId"`
	HourlyWage                 float64   `json:"hourlyWage"`
	DailyOvertimeThreshold     float64   `json:"dailyOvertimeThreshold"`
	OvertimeMultiplier         float64   `json:"overtimeMultiplier"`
	LatePenaltyPerMinute       float64   `json:"latePenaltyPerMinute"`
	EarlyLeavePenaltyPerMinute float64   `json:"earlyLeavePenaltyPerMinute"`
	Active                     bool      `json:"active"`
	CreatedAt                  time.Time `json:"createdAt"`
}

type RuleInput struct {
	HourlyWage                 float64 `json:"hourlyWage"`
	DailyOvertimeThreshold     float64 `json:"dailyOvertimeThreshold"`
	OvertimeMultiplier         float64 `json:"overtimeMultiplier"`
	LatePenaltyPerMinute       float64 `json:"latePenaltyPerMinute"`
	EarlyLeavePenaltyPerMinute float64 `json:"earlyLeavePenaltyPerMinute"`
}

// WorkLog is the per-shift pay record computed at checkout.
type WorkLog struct {
	ID                string    `json:"id"`
	WorkerID          string    `json:"workerId"`
	ShiftID           string    `json:"shiftId"`
	TimeLogID         string    `json:"timeLogId"`
	RuleID            string    `json:"ruleId"`
	ActualHours       float64   `json:"actualHours"`
	BaseHours         float64   `json:"baseHours"`
	OvertimeHours     float64   `json:"overtimeHours"`
	BasePay           float64   `json:"basePay"`
	OvertimePay       float64   `json:"overtimePay"`
	LateMinutes       int       `json:"lateMinutes"`
	EarlyLeaveMinutes int       `json:"earlyLeaveMinutes"`
	Penalty           float64   `json:"penalty"`
	TotalPay          float64   `json:"totalPay"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Adjustment is a manager-entered line item on top of shift pay.
type Adjustment struct {
	ID        string    `json:"id"`
	WorkerID  string    `json:"workerId"`
	Month     string    `json:"month"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// PeriodSummary is the rule-based view of a worker's month: shift pays
// plus adjustments.
type PeriodSummary struct {
	WorkerID  string       `json:"workerId"`
	Month     string       `json:"month"`
	ShiftPay  float64      `json:"shiftPay"`
	Bonuses   float64      `json:"bonuses"`
	Penalties float64      `json:"penalties"`
	Total     float64      `json:"total"`
	WorkLogs  []WorkLog    `json:"workLogs"`
	Lines     []Adjustment `json:"adjustments"`
}

type UpdateInput struct {
	AdjustmentTotal *float64 `json:"adjustmentTotal"`
	Note            *string  `json:"note"`
	Status          *string  `json:"status"`
}

// WorkerHours feeds monthly generation: logged minutes joined with the
// worker's rate.
type WorkerHours struct {
	WorkerID   string
	StoreID    string
	Minutes    int
	HourlyRate float64
}
