package payroll

import (
	"context"
	"time"
)

type StoreAPI interface {
	// MonthlyWorkerHours aggregates closed time-log minutes per active worker
	// for the month, optionally limited to one store.
	MonthlyWorkerHours(ctx context.Context, monthStart, monthEnd time.Time, storeID string) ([]WorkerHours, error)
	// UpsertDraft inserts or refreshes the (worker, month) row while it is
	// still DRAFT; APPROVED and PAID rows are left untouched.
	UpsertDraft(ctx context.Context, workerID, storeID, month string, totalMinutes int, hourlyRate, grossPay float64) error
	GetPayroll(ctx context.Context, payrollID string) (Payroll, error)
	GetPayrollByWorkerMonth(ctx context.Context, workerID, month string) (Payroll, error)
	ListPayrolls(ctx context.Context, month, storeID string) ([]Payroll, error)
	UpdatePayroll(ctx context.Context, payrollID string, adjustmentTotal *float64, note, status *string) error

	ActiveRule(ctx context.Context, storeID string) (Rule, error)
	UpsertRule(ctx context.Context, storeID string, input RuleInput) (string, error)

	ShiftWindow(ctx context.Context, shiftID string) (storeID string, start, end time.Time, err error)
	WorkLogExists(ctx context.Context, timeLogID string) (bool, error)
	InsertWorkLog(ctx context.Context, wl WorkLog) (string, error)
	ListWorkLogs(ctx context.Context, workerID string, from, to time.Time) ([]WorkLog, error)

	CreateAdjustment(ctx context.Context, workerID, month, adjType string, amount float64, reason, createdBy string) (string, error)
	ListAdjustments(ctx context.Context, workerID, month string) ([]Adjustment, error)

	WorkerStoreID(ctx context.Context, workerID string) (string, error)
}
