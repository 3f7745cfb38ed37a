package timelog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shiftdesk/internal/domain/auth"
)

// WorkLogRecorder computes and stores the per-shift pay record when a
// shift-linked log closes. Implemented by the payroll service; a nil
// recorder disables the hook.
type WorkLogRecorder interface {
	RecordShiftWork(ctx context.Context, workerID, shiftID, timeLogID string, checkIn, checkOut time.Time) error
}

type Service struct {
	store    StoreAPI
	workLogs WorkLogRecorder
	grace    time.Duration
	now      func() time.Time
}

func NewService(store StoreAPI, workLogs WorkLogRecorder, grace time.Duration) *Service {
	if grace <= 0 {
		grace = 15 * time.Minute
	}
	return &Service{store: store, workLogs: workLogs, grace: grace, now: time.Now}
}

func (s *Service) CheckIn(ctx context.Context, actor auth.Actor, shiftID string) (TimeLog, error) {
	open, err := s.store.HasOpenLog(ctx, actor.UserID)
	if err != nil {
		return TimeLog{}, err
	}
	if open {
		return TimeLog{}, fmt.Errorf("%w: an open time log already exists", ErrConflict)
	}

	storeID, err := s.store.WorkerStoreID(ctx, actor.UserID)
	if err != nil {
		return TimeLog{}, err
	}

	if shiftID != "" {
		assigned, err := s.store.AssignedToShift(ctx, shiftID, actor.UserID)
		if err != nil {
			return TimeLog{}, err
		}
		if !assigned {
			return TimeLog{}, fmt.Errorf("%w: you are not assigned to this shift", ErrForbidden)
		}
	}

	id, err := s.store.CreateOpenLog(ctx, actor.UserID, storeID, shiftID, s.now(), RecordedSelf)
	if err != nil {
		return TimeLog{}, err
	}
	return s.store.GetLog(ctx, id)
}

func (s *Service) CheckOut(ctx context.Context, actor auth.Actor) (TimeLog, error) {
	log, err := s.store.OpenLog(ctx, actor.UserID)
	if err != nil {
		return TimeLog{}, fmt.Errorf("%w: no open time log", ErrInvalidState)
	}

	checkOut := s.now()
	closed, err := s.store.CloseLog(ctx, log.ID, checkOut, DurationMinutes(log.CheckIn, checkOut), log.RecordedBy)
	if err != nil {
		return TimeLog{}, err
	}
	if !closed {
		return TimeLog{}, fmt.Errorf("%w: time log already closed", ErrInvalidState)
	}

	s.recordWork(ctx, log, checkOut)
	return s.store.GetLog(ctx, log.ID)
}

// AutoCheckOut closes open shift-linked logs once the shift has been over
// for the grace period, stamping the shift end as the check-out time. The
// sweep is idempotent: CloseLog re-checks openness, so a worker checking
// out normally in between is left alone.
func (s *Service) AutoCheckOut(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.grace)
	open, err := s.store.OpenShiftLogs(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, entry := range open {
		ok, err := s.store.CloseLog(ctx, entry.LogID, entry.ShiftEnd, DurationMinutes(entry.CheckIn, entry.ShiftEnd), RecordedAuto)
		if err != nil {
			slog.Warn("auto checkout failed", "logId", entry.LogID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		closed++
		log := TimeLog{ID: entry.LogID, WorkerID: entry.WorkerID, ShiftID: entry.ShiftID, CheckIn: entry.CheckIn}
		s.recordWork(ctx, log, entry.ShiftEnd)
	}
	return closed, nil
}

func (s *Service) CreateManualLog(ctx context.Context, actor auth.Actor, input ManualLogInput) (TimeLog, error) {
	if input.WorkerID == "" {
		return TimeLog{}, fmt.Errorf("%w: workerId is required", ErrInvalidInput)
	}
	if !input.CheckOut.After(input.CheckIn) {
		return TimeLog{}, fmt.Errorf("%w: checkOut must be after checkIn", ErrInvalidInput)
	}

	storeID := input.StoreID
	if storeID == "" {
		var err error
		storeID, err = s.store.WorkerStoreID(ctx, input.WorkerID)
		if err != nil {
			return TimeLog{}, err
		}
	}
	if !actor.CanManageStore(storeID) {
		return TimeLog{}, fmt.Errorf("%w: only the store manager may record manual logs", ErrForbidden)
	}

	duration := DurationMinutes(input.CheckIn, input.CheckOut)
	id, err := s.store.CreateClosedLog(ctx, input.WorkerID, storeID, input.ShiftID, input.CheckIn, input.CheckOut, duration, RecordedManual)
	if err != nil {
		return TimeLog{}, err
	}

	log := TimeLog{ID: id, WorkerID: input.WorkerID, ShiftID: input.ShiftID, CheckIn: input.CheckIn}
	s.recordWork(ctx, log, input.CheckOut)
	return s.store.GetLog(ctx, id)
}

func (s *Service) ListLogs(ctx context.Context, actor auth.Actor, workerID, storeID string, from, to time.Time) ([]TimeLog, error) {
	if actor.Role == auth.RoleStaff {
		workerID = actor.UserID
		storeID = ""
	} else if storeID != "" && !actor.CanManageStore(storeID) {
		return nil, fmt.Errorf("%w: not your store", ErrForbidden)
	}
	return s.store.ListLogs(ctx, workerID, storeID, from, to)
}

func (s *Service) WorkerSummary(ctx context.Context, actor auth.Actor, workerID string, from, to time.Time) (WorkerSummary, error) {
	if actor.Role == auth.RoleStaff && actor.UserID != workerID {
		return WorkerSummary{}, fmt.Errorf("%w: staff may only view their own hours", ErrForbidden)
	}
	return s.store.WorkerMinutes(ctx, workerID, from, to)
}

func (s *Service) StoreSummary(ctx context.Context, actor auth.Actor, storeID string, from, to time.Time) (StoreSummary, error) {
	if !actor.CanManageStore(storeID) {
		return StoreSummary{}, fmt.Errorf("%w: not your store", ErrForbidden)
	}
	return s.store.StoreMinutes(ctx, storeID, from, to)
}

// recordWork feeds the closed interval to the payroll engine. A failure is
// logged but never unwinds the checkout itself.
func (s *Service) recordWork(ctx context.Context, log TimeLog, checkOut time.Time) {
	if s.workLogs == nil || log.ShiftID == "" {
		return
	}
	if err := s.workLogs.RecordShiftWork(ctx, log.WorkerID, log.ShiftID, log.ID, log.CheckIn, checkOut); err != nil {
		slog.Warn("work log not recorded", "timeLogId", log.ID, "shiftId", log.ShiftID, "error", err)
	}
}
