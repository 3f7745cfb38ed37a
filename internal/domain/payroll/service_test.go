package payroll

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"shiftdesk/internal/domain/auth"
)

type fakeStore struct {
	hours       []WorkerHours
	payrolls    map[string]*Payroll // keyed worker|month
	rules       map[string]Rule     // keyed store
	shiftStores map[string]string
	shiftStarts map[string]time.Time
	shiftEnds   map[string]time.Time
	workLogs    map[string]WorkLog // keyed time log id
	adjustments []Adjustment
	workers     map[string]string
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		payrolls:    map[string]*Payroll{},
		rules:       map[string]Rule{},
		shiftStores: map[string]string{},
		shiftStarts: map[string]time.Time{},
		shiftEnds:   map[string]time.Time{},
		workLogs:    map[string]WorkLog{},
		workers:     map[string]string{},
	}
}

func (f *fakeStore) id() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeStore) MonthlyWorkerHours(_ context.Context, _, _ time.Time, storeID string) ([]WorkerHours, error) {
	var out []WorkerHours
	for _, wh := range f.hours {
		if storeID == "" || wh.StoreID == storeID {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertDraft(_ context.Context, workerID, storeID, month string, totalMinutes int, hourlyRate, grossPay float64) error {
	key := workerID + "|" + month
	if existing, ok := f.payrolls[key]; ok {
		if existing.Status != StatusDraft {
			return nil
		}
		existing.TotalMinutes = totalMinutes
		existing.HourlyRate = hourlyRate
		existing.GrossPay = grossPay
		existing.FinalPay = grossPay + existing.AdjustmentTotal
		return nil
	}
	f.payrolls[key] = &Payroll{ID: f.id(), WorkerID: workerID, StoreID: storeID, Month: month,
		TotalMinutes: totalMinutes, HourlyRate: hourlyRate, GrossPay: grossPay, FinalPay: grossPay,
		Status: StatusDraft}
	return nil
}

func (f *fakeStore) find(payrollID string) *Payroll {
	for _, p := range f.payrolls {
		if p.ID == payrollID {
			return p
		}
	}
	return nil
}

func (f *fakeStore) GetPayroll(_ context.Context, payrollID string) (Payroll, error) {
	if p := f.find(payrollID); p != nil {
		return *p, nil
	}
	return Payroll{}, ErrNotFound
}

func (f *fakeStore) GetPayrollByWorkerMonth(_ context.Context, workerID, month string) (Payroll, error) {
	if p, ok := f.payrolls[workerID+"|"+month]; ok {
		return *p, nil
	}
	return Payroll{}, ErrNotFound
}

func (f *fakeStore) ListPayrolls(_ context.Context, month, storeID string) ([]Payroll, error) {
	var out []Payroll
	for _, p := range f.payrolls {
		if month != "" && p.Month != month {
			continue
		}
		if storeID != "" && p.StoreID != storeID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) UpdatePayroll(_ context.Context, payrollID string, adjustmentTotal *float64, note, status *string) error {
	p := f.find(payrollID)
	if p == nil {
		return ErrNotFound
	}
	if adjustmentTotal != nil {
		p.AdjustmentTotal = *adjustmentTotal
	}
	p.FinalPay = p.GrossPay + p.AdjustmentTotal
	if note != nil {
		p.Note = *note
	}
	if status != nil {
		p.Status = *status
	}
	return nil
}

func (f *fakeStore) ActiveRule(_ context.Context, storeID string) (Rule, error) {
	rule, ok := f.rules[storeID]
	if !ok {
		return Rule{}, ErrNotFound
	}
	return rule, nil
}

func (f *fakeStore) UpsertRule(_ context.Context, storeID string, input RuleInput) (string, error) {
	id := f.id()
	f.rules[storeID] = Rule{ID: id, StoreID: storeID, HourlyWage: input.HourlyWage,
		DailyOvertimeThreshold: input.DailyOvertimeThreshold, OvertimeMultiplier: input.OvertimeMultiplier,
		LatePenaltyPerMinute: input.LatePenaltyPerMinute, EarlyLeavePenaltyPerMinute: input.EarlyLeavePenaltyPerMinute,
		Active: true}
	return id, nil
}

func (f *fakeStore) ShiftWindow(_ context.Context, shiftID string) (string, time.Time, time.Time, error) {
	storeID, ok := f.shiftStores[shiftID]
	if !ok {
		return "", time.Time{}, time.Time{}, ErrNotFound
	}
	return storeID, f.shiftStarts[shiftID], f.shiftEnds[shiftID], nil
}

func (f *fakeStore) WorkLogExists(_ context.Context, timeLogID string) (bool, error) {
	_, ok := f.workLogs[timeLogID]
	return ok, nil
}

func (f *fakeStore) InsertWorkLog(_ context.Context, wl WorkLog) (string, error) {
	wl.ID = f.id()
	f.workLogs[wl.TimeLogID] = wl
	return wl.ID, nil
}

func (f *fakeStore) ListWorkLogs(_ context.Context, workerID string, from, to time.Time) ([]WorkLog, error) {
	var out []WorkLog
	for _, wl := range f.workLogs {
		if wl.WorkerID != workerID {
			continue
		}
		start := f.shiftStarts[wl.ShiftID]
		if start.Before(from) || !start.Before(to) {
			continue
		}
		out = append(out, wl)
	}
	return out, nil
}

func (f *fakeStore) CreateAdjustment(_ context.Context, workerID, month, adjType string, amount float64, reason, createdBy string) (string, error) {
	id := f.id()
	f.adjustments = append(f.adjustments, Adjustment{ID: id, WorkerID: workerID, Month: month,
		Type: adjType, Amount: amount, Reason: reason, CreatedBy: createdBy})
	return id, nil
}

func (f *fakeStore) ListAdjustments(_ context.Context, workerID, month string) ([]Adjustment, error) {
	var out []Adjustment
	for _, a := range f.adjustments {
		if a.WorkerID == workerID && a.Month == month {
			out = append(out, a)
		}
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

var (
	owner   = auth.Actor{UserID: "own", Role: auth.RoleOwner}
	manager = auth.Actor{UserID: "mgr", Role: auth.RoleManager, StoreID: "store-1"}
)

func TestGenerateCreatesDrafts(t *testing.T) {
	store := newFakeStore()
	store.hours = []WorkerHours{
		{WorkerID: "w1", StoreID: "store-1", Minutes: 480, HourlyRate: 12.5},
		{WorkerID: "w2", StoreID: "store-1", Minutes: 90, HourlyRate: 10},
	}
	svc := NewService(store, nil)

	rows, err := svc.Generate(context.Background(), manager, "2026-03", "store-1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	p1, _ := store.GetPayrollByWorkerMonth(context.Background(), "w1", "2026-03")
	if p1.GrossPay != 100 || p1.Status != StatusDraft {
		t.Fatalf("unexpected row for w1: %+v", p1)
	}
}

func TestGenerateIsIdempotentWhileDraft(t *testing.T) {
	store := newFakeStore()
	store.hours = []WorkerHours{{WorkerID: "w1", StoreID: "store-1", Minutes: 480, HourlyRate: 10}}
	svc := NewService(store, nil)

	if _, err := svc.Generate(context.Background(), manager, "2026-03", "store-1"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	// More hours logged since the first run.
	store.hours[0].Minutes = 600
	if _, err := svc.Generate(context.Background(), manager, "2026-03", "store-1"); err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}

	p, _ := store.GetPayrollByWorkerMonth(context.Background(), "w1", "2026-03")
	if p.GrossPay != 100 {
		t.Fatalf("expected draft refreshed to 100, got %v", p.GrossPay)
	}
	if len(store.payrolls) != 1 {
		t.Fatalf("expected a single row per (worker, month), got %d", len(store.payrolls))
	}
}

func TestGenerateLeavesFinalizedRowsAlone(t *testing.T) {
	store := newFakeStore()
	store.hours = []WorkerHours{{WorkerID: "w1", StoreID: "store-1", Minutes: 480, HourlyRate: 10}}
	svc := NewService(store, nil)

	if _, err := svc.Generate(context.Background(), manager, "2026-03", "store-1"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	p, _ := store.GetPayrollByWorkerMonth(context.Background(), "w1", "2026-03")
	if _, err := svc.Update(context.Background(), owner, p.ID, UpdateInput{Status: strPtr(StatusApproved)}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	store.hours[0].Minutes = 600
	if _, err := svc.Generate(context.Background(), manager, "2026-03", "store-1"); err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}
	p, _ = store.GetPayrollByWorkerMonth(context.Background(), "w1", "2026-03")
	if p.GrossPay != 80 || p.Status != StatusApproved {
		t.Fatalf("approved row must be untouched, got %+v", p)
	}
}

func TestGenerateRejectsBadMonth(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	if _, err := svc.Generate(context.Background(), manager, "March 2026", "store-1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	store := newFakeStore()
	store.hours = []WorkerHours{{WorkerID: "w1", StoreID: "store-1", Minutes: 480, HourlyRate: 10}}
	svc := NewService(store, nil)
	if _, err := svc.Generate(context.Background(), manager, "2026-03", "store-1"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	p, _ := store.GetPayrollByWorkerMonth(context.Background(), "w1", "2026-03")

	// Manager may not finalize.
	if _, err := svc.Update(context.Background(), manager, p.ID, UpdateInput{Status: strPtr(StatusApproved)}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for manager approval, got %v", err)
	}

	// DRAFT cannot jump straight to PAID.
	if _, err := svc.Update(context.Background(), owner, p.ID, UpdateInput{Status: strPtr(StatusPaid)}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for DRAFT->PAID, got %v", err)
	}

	approved, err := svc.Update(context.Background(), owner, p.ID, UpdateInput{Status: strPtr(StatusApproved)})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Fatalf("expected APPROVED, got %s", approved.Status)
	}

	// Adjustments are frozen past DRAFT.
	if _, err := svc.Update(context.Background(), owner, p.ID, UpdateInput{AdjustmentTotal: floatPtr(25)}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState editing APPROVED row, got %v", err)
	}

	paid, err := svc.Update(context.Background(), owner, p.ID, UpdateInput{Status: strPtr(StatusPaid)})
	if err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	if paid.Status != StatusPaid {
		t.Fatalf("expected PAID, got %s", paid.Status)
	}

	if _, err := svc.Update(context.Background(), owner, p.ID, UpdateInput{Note: strPtr("late")}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on PAID row, got %v", err)
	}
}

func TestUpdateAdjustmentRecomputesFinalPay(t *testing.T) {
	store := newFakeStore()
	store.hours = []WorkerHours{{WorkerID: "w1", StoreID: "store-1", Minutes: 480, HourlyRate: 10}}
	svc := NewService(store, nil)
	if _, err := svc.Generate(context.Background(), manager, "2026-03", "store-1"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	p, _ := store.GetPayrollByWorkerMonth(context.Background(), "w1", "2026-03")

	updated, err := svc.Update(context.Background(), manager, p.ID, UpdateInput{AdjustmentTotal: floatPtr(-15)})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FinalPay != 65 {
		t.Fatalf("expected final pay 65, got %v", updated.FinalPay)
	}
}

func TestRecordShiftWorkNoRuleIsNoOp(t *testing.T) {
	store := newFakeStore()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	store.shiftStores["sh1"] = "store-1"
	store.shiftStarts["sh1"] = start
	store.shiftEnds["sh1"] = start.Add(8 * time.Hour)
	svc := NewService(store, nil)

	if err := svc.RecordShiftWork(context.Background(), "w1", "sh1", "tl1", start, start.Add(8*time.Hour)); err != nil {
		t.Fatalf("expected no-op without a rule, got %v", err)
	}
	if len(store.workLogs) != 0 {
		t.Fatalf("expected no work logs, got %d", len(store.workLogs))
	}
}

func TestRecordShiftWorkComputesAndDeduplicates(t *testing.T) {
	store := newFakeStore()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	store.shiftStores["sh1"] = "store-1"
	store.shiftStarts["sh1"] = start
	store.shiftEnds["sh1"] = end
	store.rules["store-1"] = Rule{ID: "r1", StoreID: "store-1", HourlyWage: 10,
		DailyOvertimeThreshold: 8, OvertimeMultiplier: 1.5, LatePenaltyPerMinute: 0.5, EarlyLeavePenaltyPerMinute: 0.25}
	svc := NewService(store, nil)

	// 12 minutes late, left 30 minutes early.
	checkIn := start.Add(12 * time.Minute)
	checkOut := end.Add(-30 * time.Minute)
	if err := svc.RecordShiftWork(context.Background(), "w1", "sh1", "tl1", checkIn, checkOut); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	wl, ok := store.workLogs["tl1"]
	if !ok {
		t.Fatal("expected a work log keyed on the time log")
	}
	if wl.LateMinutes != 12 || wl.EarlyLeaveMinutes != 30 {
		t.Fatalf("unexpected minutes: %+v", wl)
	}
	// 7h18m = 7.3h base, no overtime; penalty 12×0.5 + 30×0.25 = 13.5
	if wl.Penalty != 13.5 {
		t.Fatalf("expected penalty 13.5, got %v", wl.Penalty)
	}
	if wl.TotalPay != 59.5 {
		t.Fatalf("expected total 59.5, got %v", wl.TotalPay)
	}

	// Redelivery of the same time log changes nothing.
	if err := svc.RecordShiftWork(context.Background(), "w1", "sh1", "tl1", checkIn, checkOut); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}
	if len(store.workLogs) != 1 {
		t.Fatalf("expected a single work log, got %d", len(store.workLogs))
	}
}

func TestPeriodSummaryCombinesShiftPayAndAdjustments(t *testing.T) {
	store := newFakeStore()
	store.shiftStarts["sh1"] = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	store.shiftStarts["sh2"] = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	store.workLogs["tl1"] = WorkLog{WorkerID: "w1", ShiftID: "sh1", TimeLogID: "tl1", TotalPay: 100}
	store.workLogs["tl2"] = WorkLog{WorkerID: "w1", ShiftID: "sh2", TimeLogID: "tl2", TotalPay: 50}
	store.workers["w1"] = "store-1"
	svc := NewService(store, nil)

	if _, err := svc.CreateAdjustment(context.Background(), manager, "w1", "2026-03", AdjustmentBonus, 30, "holiday cover"); err != nil {
		t.Fatalf("adjustment failed: %v", err)
	}
	if _, err := svc.CreateAdjustment(context.Background(), manager, "w1", "2026-03", AdjustmentPenalty, 10, ""); err != nil {
		t.Fatalf("adjustment failed: %v", err)
	}

	summary, err := svc.PeriodSummary(context.Background(), manager, "w1", "2026-03")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.ShiftPay != 150 || summary.Total != 170 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestPeriodSummaryAttributesOvernightShiftToStartMonth(t *testing.T) {
	store := newFakeStore()
	// Shift starts Jan 31 22:00, checkout lands Feb 1.
	store.shiftStarts["sh1"] = time.Date(2026, 1, 31, 22, 0, 0, 0, time.UTC)
	store.workLogs["tl1"] = WorkLog{WorkerID: "w1", ShiftID: "sh1", TimeLogID: "tl1", TotalPay: 80,
		CreatedAt: time.Date(2026, 2, 1, 6, 30, 0, 0, time.UTC)}
	store.workers["w1"] = "store-1"
	svc := NewService(store, nil)

	january, err := svc.PeriodSummary(context.Background(), manager, "w1", "2026-01")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if january.ShiftPay != 80 {
		t.Fatalf("expected the overnight shift in January, got %+v", january)
	}

	february, err := svc.PeriodSummary(context.Background(), manager, "w1", "2026-02")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if february.ShiftPay != 0 {
		t.Fatalf("expected no February pay, got %+v", february)
	}
}

func TestCreateAdjustmentValidation(t *testing.T) {
	store := newFakeStore()
	store.workers["w1"] = "store-1"
	svc := NewService(store, nil)

	if _, err := svc.CreateAdjustment(context.Background(), manager, "w1", "2026-03", "RAISE", 10, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad type, got %v", err)
	}
	if _, err := svc.CreateAdjustment(context.Background(), manager, "w1", "2026-03", AdjustmentBonus, -5, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative amount, got %v", err)
	}
	otherManager := auth.Actor{UserID: "mgr2", Role: auth.RoleManager, StoreID: "store-2"}
	if _, err := svc.CreateAdjustment(context.Background(), otherManager, "w1", "2026-03", AdjustmentBonus, 10, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSetRuleValidation(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	if _, err := svc.SetRule(context.Background(), manager, "store-1", RuleInput{HourlyWage: 0, DailyOvertimeThreshold: 8, OvertimeMultiplier: 1.5}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero wage, got %v", err)
	}
	rule, err := svc.SetRule(context.Background(), manager, "store-1", RuleInput{
		HourlyWage: 12, DailyOvertimeThreshold: 8, OvertimeMultiplier: 1.25, LatePenaltyPerMinute: 0.2,
	})
	if err != nil {
		t.Fatalf("set rule failed: %v", err)
	}
	if !rule.Active || rule.HourlyWage != 12 {
		t.Fatalf("unexpected rule: %+v", rule)
	}
}

func strPtr(s string) *string     { return &s }
func floatPtr(v float64) *float64 { return &v }
