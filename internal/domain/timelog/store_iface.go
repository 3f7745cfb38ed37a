package timelog

import (
	"context"
	"time"
)

type StoreAPI interface {
	OpenLog(ctx context.Context, workerID string) (TimeLog, error)
	HasOpenLog(ctx context.Context, workerID string) (bool, error)
	CreateOpenLog(ctx context.Context, workerID, storeID, shiftID string, checkIn time.Time, recordedBy string) (string, error)
	// CloseLog conditionally closes an open log; reports false when the log
	// was already closed (a concurrent checkout or sweep got there first).
	CloseLog(ctx context.Context, logID string, checkOut time.Time, durationMinutes int, recordedBy string) (bool, error)
	CreateClosedLog(ctx context.Context, workerID, storeID, shiftID string, checkIn, checkOut time.Time, durationMinutes int, recordedBy string) (string, error)
	GetLog(ctx context.Context, logID string) (TimeLog, error)
	ListLogs(ctx context.Context, workerID, storeID string, from, to time.Time) ([]TimeLog, error)

	WorkerStoreID(ctx context.Context, workerID string) (string, error)
	AssignedToShift(ctx context.Context, shiftID, workerID string) (bool, error)

	// OpenShiftLogs returns open shift-linked logs whose shift ended at or
	// before the cutoff.
	OpenShiftLogs(ctx context.Context, cutoff time.Time) ([]OpenShiftLog, error)

	WorkerMinutes(ctx context.Context, workerID string, from, to time.Time) (WorkerSummary, error)
	StoreMinutes(ctx context.Context, storeID string, from, to time.Time) (StoreSummary, error)
}
