package ranking

import (
	"context"
	"time"
)

type StoreAPI interface {
	// WorkerStats tallies shifts, attendance, punctuality, hours and tasks
	// per active worker over [from, to), optionally limited to one store.
	WorkerStats(ctx context.Context, storeID string, from, to time.Time) ([]WorkerStats, error)
}
