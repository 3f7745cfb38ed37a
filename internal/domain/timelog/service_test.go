package timelog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"shiftdesk/internal/domain/auth"
)

type fakeStore struct {
	logs      map[string]*TimeLog
	workers   map[string]string    // worker -> store
	assigned  map[string]bool      // shift|worker
	shiftEnds map[string]time.Time // shift -> end
	nextID    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		logs:      map[string]*TimeLog{},
		workers:   map[string]string{},
		assigned:  map[string]bool{},
		shiftEnds: map[string]time.Time{},
	}
}

func (f *fakeStore) id() string {
	f.nextID++
	return fmt.Sprintf("log-%d", f.nextID)
}

func (f *fakeStore) OpenLog(_ context.Context, workerID string) (TimeLog, error) {
	for _, l := range f.logs {
		if l.WorkerID == workerID && l.CheckOut == nil {
			return *l, nil
		}
	}
	return TimeLog{}, ErrNotFound
}

func (f *fakeStore) HasOpenLog(ctx context.Context, workerID string) (bool, error) {
	_, err := f.OpenLog(ctx, workerID)
	return err == nil, nil
}

func (f *fakeStore) CreateOpenLog(_ context.Context, workerID, storeID, shiftID string, checkIn time.Time, recordedBy string) (string, error) {
	id := f.id()
	f.logs[id] = &TimeLog{ID: id, WorkerID: workerID, StoreID: storeID, ShiftID: shiftID, CheckIn: checkIn, RecordedBy: recordedBy}
	return id, nil
}

func (f *fakeStore) CloseLog(_ context.Context, logID string, checkOut time.Time, durationMinutes int, recordedBy string) (bool, error) {
	l, ok := f.logs[logID]
	if !ok || l.CheckOut != nil {
		return false, nil
	}
	out := checkOut
	l.CheckOut = &out
	l.DurationMinutes = durationMinutes
	l.RecordedBy = recordedBy
	return true, nil
}

func (f *fakeStore) CreateClosedLog(_ context.Context, workerID, storeID, shiftID string, checkIn, checkOut time.Time, durationMinutes int, recordedBy string) (string, error) {
	id := f.id()
	out := checkOut
	f.logs[id] = &TimeLog{ID: id, WorkerID: workerID, StoreID: storeID, ShiftID: shiftID,
		CheckIn: checkIn, CheckOut: &out, DurationMinutes: durationMinutes, RecordedBy: recordedBy}
	return id, nil
}

func (f *fakeStore) GetLog(_ context.Context, logID string) (TimeLog, error) {
	l, ok := f.logs[logID]
	if !ok {
		return TimeLog{}, ErrNotFound
	}
	return *l, nil
}

func (f *fakeStore) ListLogs(_ context.Context, workerID, storeID string, from, to time.Time) ([]TimeLog, error) {
	var out []TimeLog
	for _, l := range f.logs {
		if workerID != "" && l.WorkerID != workerID {
			continue
		}
		if storeID != "" && l.StoreID != storeID {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeStore) WorkerStoreID(_ context.Context, workerID string) (string, error) {
	storeID, ok := f.workers[workerID]
	if !ok {
		return "", ErrNotFound
	}
	return storeID, nil
}

func (f *fakeStore) AssignedToShift(_ context.Context, shiftID, workerID string) (bool, error) {
	return f.assigned[shiftID+"|"+workerID], nil
}

func (f *fakeStore) OpenShiftLogs(_ context.Context, cutoff time.Time) ([]OpenShiftLog, error) {
	var out []OpenShiftLog
	for _, l := range f.logs {
		if l.CheckOut != nil || l.ShiftID == "" {
			continue
		}
		end := f.shiftEnds[l.ShiftID]
		if !end.After(cutoff) {
			out = append(out, OpenShiftLog{LogID: l.ID, WorkerID: l.WorkerID, ShiftID: l.ShiftID, CheckIn: l.CheckIn, ShiftEnd: end})
		}
	}
	return out, nil
}

func (f *fakeStore) WorkerMinutes(_ context.Context, workerID string, from, to time.Time) (WorkerSummary, error) {
	summary := WorkerSummary{WorkerID: workerID}
	for _, l := range f.logs {
		if l.WorkerID == workerID && l.CheckOut != nil {
			summary.TotalMinutes += l.DurationMinutes
			summary.LogCount++
		}
	}
	summary.TotalHours = float64(summary.TotalMinutes) / 60
	return summary, nil
}

func (f *fakeStore) StoreMinutes(_ context.Context, storeID string, from, to time.Time) (StoreSummary, error) {
	return StoreSummary{StoreID: storeID}, nil
}

type recordedWork struct {
	WorkerID, ShiftID, TimeLogID string
	CheckIn, CheckOut            time.Time
}

type fakeRecorder struct {
	records []recordedWork
	err     error
}

func (f *fakeRecorder) RecordShiftWork(_ context.Context, workerID, shiftID, timeLogID string, checkIn, checkOut time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, recordedWork{workerID, shiftID, timeLogID, checkIn, checkOut})
	return nil
}

var staffActor = auth.Actor{UserID: "w1", Role: auth.RoleStaff, StoreID: "store-1"}

func newTimelogService(store *fakeStore, recorder WorkLogRecorder, now time.Time) *Service {
	store.workers["w1"] = "store-1"
	svc := NewService(store, recorder, 15*time.Minute)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCheckInRejectsSecondOpenLog(t *testing.T) {
	store := newFakeStore()
	svc := newTimelogService(store, nil, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	if _, err := svc.CheckIn(context.Background(), staffActor, ""); err != nil {
		t.Fatalf("first check-in failed: %v", err)
	}
	if _, err := svc.CheckIn(context.Background(), staffActor, ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on second check-in, got %v", err)
	}
}

func TestCheckInRequiresAssignmentForShiftLink(t *testing.T) {
	store := newFakeStore()
	svc := newTimelogService(store, nil, time.Now())

	if _, err := svc.CheckIn(context.Background(), staffActor, "sh1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden without assignment, got %v", err)
	}

	store.assigned["sh1|w1"] = true
	log, err := svc.CheckIn(context.Background(), staffActor, "sh1")
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if log.ShiftID != "sh1" || log.RecordedBy != RecordedSelf {
		t.Fatalf("unexpected log: %+v", log)
	}
}

func TestCheckOutComputesWholeMinutes(t *testing.T) {
	store := newFakeStore()
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := newTimelogService(store, nil, in)

	if _, err := svc.CheckIn(context.Background(), staffActor, ""); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	// 4h02m30s on the clock rounds down to 242 minutes.
	svc.now = func() time.Time { return in.Add(4*time.Hour + 2*time.Minute + 30*time.Second) }
	log, err := svc.CheckOut(context.Background(), staffActor)
	if err != nil {
		t.Fatalf("check-out failed: %v", err)
	}
	if log.DurationMinutes != 242 {
		t.Fatalf("expected 242 minutes, got %d", log.DurationMinutes)
	}
	if log.CheckOut == nil {
		t.Fatal("expected checkOut to be set")
	}
}

func TestCheckOutWithoutOpenLog(t *testing.T) {
	store := newFakeStore()
	svc := newTimelogService(store, nil, time.Now())

	if _, err := svc.CheckOut(context.Background(), staffActor); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestCheckOutRecordsShiftWork(t *testing.T) {
	store := newFakeStore()
	recorder := &fakeRecorder{}
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := newTimelogService(store, recorder, in)
	store.assigned["sh1|w1"] = true

	if _, err := svc.CheckIn(context.Background(), staffActor, "sh1"); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	svc.now = func() time.Time { return in.Add(4 * time.Hour) }
	if _, err := svc.CheckOut(context.Background(), staffActor); err != nil {
		t.Fatalf("check-out failed: %v", err)
	}

	if len(recorder.records) != 1 {
		t.Fatalf("expected one work record, got %d", len(recorder.records))
	}
	rec := recorder.records[0]
	if rec.WorkerID != "w1" || rec.ShiftID != "sh1" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestCheckOutSurvivesRecorderFailure(t *testing.T) {
	store := newFakeStore()
	recorder := &fakeRecorder{err: errors.New("rule lookup failed")}
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := newTimelogService(store, recorder, in)
	store.assigned["sh1|w1"] = true

	if _, err := svc.CheckIn(context.Background(), staffActor, "sh1"); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	svc.now = func() time.Time { return in.Add(time.Hour) }
	log, err := svc.CheckOut(context.Background(), staffActor)
	if err != nil {
		t.Fatalf("check-out must not fail on recorder error: %v", err)
	}
	if log.CheckOut == nil {
		t.Fatal("expected the log to be closed")
	}
}

func TestAutoCheckOutSweep(t *testing.T) {
	store := newFakeStore()
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := in.Add(4 * time.Hour) // 13:00
	svc := newTimelogService(store, nil, in)
	store.assigned["sh1|w1"] = true
	store.shiftEnds["sh1"] = end

	if _, err := svc.CheckIn(context.Background(), staffActor, "sh1"); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}

	// Within the 15min grace: nothing happens.
	svc.now = func() time.Time { return end.Add(10 * time.Minute) }
	closed, err := svc.AutoCheckOut(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if closed != 0 {
		t.Fatalf("expected no closes inside grace, got %d", closed)
	}

	// Past the grace: closed at the shift end, not at sweep time.
	svc.now = func() time.Time { return end.Add(20 * time.Minute) }
	closed, err = svc.AutoCheckOut(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected one close, got %d", closed)
	}
	log, _ := store.OpenLog(context.Background(), "w1")
	if log.ID != "" {
		t.Fatal("expected no open log after sweep")
	}
	for _, l := range store.logs {
		if !l.CheckOut.Equal(end) {
			t.Fatalf("expected checkOut at shift end %v, got %v", end, l.CheckOut)
		}
		if l.RecordedBy != RecordedAuto {
			t.Fatalf("expected AUTO recordedBy, got %s", l.RecordedBy)
		}
	}

	// Idempotent.
	closed, _ = svc.AutoCheckOut(context.Background())
	if closed != 0 {
		t.Fatalf("expected second sweep to close nothing, got %d", closed)
	}
}

func TestCreateManualLogValidation(t *testing.T) {
	store := newFakeStore()
	svc := newTimelogService(store, nil, time.Now())
	manager := auth.Actor{UserID: "mgr", Role: auth.RoleManager, StoreID: "store-1"}

	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	_, err := svc.CreateManualLog(context.Background(), manager, ManualLogInput{
		WorkerID: "w1", CheckIn: in, CheckOut: in.Add(-time.Hour),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted interval, got %v", err)
	}

	log, err := svc.CreateManualLog(context.Background(), manager, ManualLogInput{
		WorkerID: "w1", CheckIn: in, CheckOut: in.Add(3 * time.Hour),
	})
	if err != nil {
		t.Fatalf("manual log failed: %v", err)
	}
	if log.RecordedBy != RecordedManual || log.DurationMinutes != 180 {
		t.Fatalf("unexpected manual log: %+v", log)
	}

	otherManager := auth.Actor{UserID: "mgr2", Role: auth.RoleManager, StoreID: "store-2"}
	_, err = svc.CreateManualLog(context.Background(), otherManager, ManualLogInput{
		WorkerID: "w1", CheckIn: in, CheckOut: in.Add(time.Hour),
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other store's manager, got %v", err)
	}
}

func TestDurationHelpers(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	if got := LateMinutes(start, start.Add(-5*time.Minute)); got != 0 {
		t.Fatalf("early arrival should not be late, got %d", got)
	}
	if got := LateMinutes(start, start.Add(12*time.Minute)); got != 12 {
		t.Fatalf("expected 12 late minutes, got %d", got)
	}
	if got := EarlyLeaveMinutes(end, end.Add(10*time.Minute)); got != 0 {
		t.Fatalf("overrun should not count as early leave, got %d", got)
	}
	if got := EarlyLeaveMinutes(end, end.Add(-30*time.Minute)); got != 30 {
		t.Fatalf("expected 30 early-leave minutes, got %d", got)
	}
	if got := DurationMinutes(start, start); got != 0 {
		t.Fatalf("zero interval should be 0 minutes, got %d", got)
	}
}
