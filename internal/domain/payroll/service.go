package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shiftdesk/internal/domain/auth"
	"shiftdesk/internal/domain/timelog"
	cryptoutil "shiftdesk/internal/platform/crypto"
)

type Service struct {
	store  StoreAPI
	crypto *cryptoutil.Service
	now    func() time.Time
}

func NewService(store StoreAPI, crypto *cryptoutil.Service) *Service {
	return &Service{store: store, crypto: crypto, now: time.Now}
}

// Generate upserts a DRAFT row per worker for the month using the hourly
// formula. Rows already APPROVED or PAID are returned as they are; running
// the generation again only refreshes drafts.
func (s *Service) Generate(ctx context.Context, actor auth.Actor, month, storeID string) ([]Payroll, error) {
	monthStart, err := time.Parse(MonthLayout, month)
	if err != nil {
		return nil, fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidInput)
	}
	if storeID == "" && !actor.IsOwner() {
		return nil, fmt.Errorf("%w: only the owner may generate across all stores", ErrForbidden)
	}
	if storeID != "" && !actor.CanManageStore(storeID) {
		return nil, fmt.Errorf("%w: not your store", ErrForbidden)
	}
	monthEnd := monthStart.AddDate(0, 1, 0)

	hours, err := s.store.MonthlyWorkerHours(ctx, monthStart, monthEnd, storeID)
	if err != nil {
		return nil, err
	}
	for _, wh := range hours {
		gross := ComputeGross(wh.Minutes, wh.HourlyRate)
		if err := s.store.UpsertDraft(ctx, wh.WorkerID, wh.StoreID, month, wh.Minutes, wh.HourlyRate, gross); err != nil {
			return nil, err
		}
	}
	return s.store.ListPayrolls(ctx, month, storeID)
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, payrollID string, input UpdateInput) (Payroll, error) {
	row, err := s.store.GetPayroll(ctx, payrollID)
	if err != nil {
		return Payroll{}, err
	}
	if !actor.CanManageStore(row.StoreID) {
		return Payroll{}, fmt.Errorf("%w: not your store", ErrForbidden)
	}
	if row.Status == StatusPaid {
		return Payroll{}, fmt.Errorf("%w: payroll is already PAID", ErrInvalidState)
	}
	if (input.AdjustmentTotal != nil || input.Note != nil) && row.Status != StatusDraft {
		return Payroll{}, fmt.Errorf("%w: only DRAFT payrolls are editable", ErrInvalidState)
	}

	if input.Status != nil {
		next := *input.Status
		switch {
		case row.Status == StatusDraft && next == StatusApproved,
			row.Status == StatusApproved && next == StatusPaid:
			if !actor.IsOwner() {
				return Payroll{}, fmt.Errorf("%w: only the owner may finalize payroll", ErrForbidden)
			}
		default:
			return Payroll{}, fmt.Errorf("%w: cannot move %s to %s", ErrInvalidState, row.Status, next)
		}
	}

	if err := s.store.UpdatePayroll(ctx, payrollID, input.AdjustmentTotal, input.Note, input.Status); err != nil {
		return Payroll{}, err
	}
	return s.store.GetPayroll(ctx, payrollID)
}

func (s *Service) GetPayroll(ctx context.Context, actor auth.Actor, payrollID string) (Payroll, error) {
	row, err := s.store.GetPayroll(ctx, payrollID)
	if err != nil {
		return Payroll{}, err
	}
	if actor.Role == auth.RoleStaff && row.WorkerID != actor.UserID {
		return Payroll{}, fmt.Errorf("%w: staff may only view their own payroll", ErrForbidden)
	}
	return row, nil
}

func (s *Service) ListPayrolls(ctx context.Context, actor auth.Actor, month, storeID string) ([]Payroll, error) {
	if actor.Role == auth.RoleStaff {
		return nil, fmt.Errorf("%w: staff may not list payrolls", ErrForbidden)
	}
	if storeID != "" && !actor.CanManageStore(storeID) {
		return nil, fmt.Errorf("%w: not your store", ErrForbidden)
	}
	if storeID == "" && !actor.IsOwner() {
		storeID = actor.StoreID
	}
	return s.store.ListPayrolls(ctx, month, storeID)
}

// RecordShiftWork implements the checkout hook: when the shift's store has
// an active rule, the closed interval becomes a WorkLog priced by that rule.
// Keyed on the time log id, so re-delivery is a no-op.
func (s *Service) RecordShiftWork(ctx context.Context, workerID, shiftID, timeLogID string, checkIn, checkOut time.Time) error {
	exists, err := s.store.WorkLogExists(ctx, timeLogID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	storeID, start, end, err := s.store.ShiftWindow(ctx, shiftID)
	if err != nil {
		return err
	}
	rule, err := s.store.ActiveRule(ctx, storeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	actualHours := float64(timelog.DurationMinutes(checkIn, checkOut)) / 60
	wl := ComputeShiftPay(rule, actualHours, timelog.LateMinutes(start, checkIn), timelog.EarlyLeaveMinutes(end, checkOut))
	wl.WorkerID = workerID
	wl.ShiftID = shiftID
	wl.TimeLogID = timeLogID
	_, err = s.store.InsertWorkLog(ctx, wl)
	return err
}

func (s *Service) PeriodSummary(ctx context.Context, actor auth.Actor, workerID, month string) (PeriodSummary, error) {
	monthStart, err := time.Parse(MonthLayout, month)
	if err != nil {
		return PeriodSummary{}, fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidInput)
	}
	if actor.Role == auth.RoleStaff && workerID != actor.UserID {
		return PeriodSummary{}, fmt.Errorf("%w: staff may only view their own summary", ErrForbidden)
	}

	workLogs, err := s.store.ListWorkLogs(ctx, workerID, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return PeriodSummary{}, err
	}
	adjustments, err := s.store.ListAdjustments(ctx, workerID, month)
	if err != nil {
		return PeriodSummary{}, err
	}
	return SummarizePeriod(workerID, month, workLogs, adjustments), nil
}

func (s *Service) CreateAdjustment(ctx context.Context, actor auth.Actor, workerID, month, adjType string, amount float64, reason string) (Adjustment, error) {
	if adjType != AdjustmentBonus && adjType != AdjustmentPenalty {
		return Adjustment{}, fmt.Errorf("%w: type must be BONUS or PENALTY", ErrInvalidInput)
	}
	if amount <= 0 {
		return Adjustment{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if _, err := time.Parse(MonthLayout, month); err != nil {
		return Adjustment{}, fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidInput)
	}
	storeID, err := s.store.WorkerStoreID(ctx, workerID)
	if err != nil {
		return Adjustment{}, err
	}
	if !actor.CanManageStore(storeID) {
		return Adjustment{}, fmt.Errorf("%w: not your store", ErrForbidden)
	}

	id, err := s.store.CreateAdjustment(ctx, workerID, month, adjType, amount, reason, actor.UserID)
	if err != nil {
		return Adjustment{}, err
	}
	return Adjustment{ID: id, WorkerID: workerID, Month: month, Type: adjType, Amount: amount, Reason: reason, CreatedBy: actor.UserID}, nil
}

func (s *Service) SetRule(ctx context.Context, actor auth.Actor, storeID string, input RuleInput) (Rule, error) {
	if !actor.CanManageStore(storeID) {
		return Rule{}, fmt.Errorf("%w: not your store", ErrForbidden)
	}
	if input.HourlyWage <= 0 {
		return Rule{}, fmt.Errorf("%w: hourlyWage must be positive", ErrInvalidInput)
	}
	if input.DailyOvertimeThreshold <= 0 {
		return Rule{}, fmt.Errorf("%w: dailyOvertimeThreshold must be positive", ErrInvalidInput)
	}
	if input.OvertimeMultiplier < 1 {
		return Rule{}, fmt.Errorf("%w: overtimeMultiplier must be at least 1", ErrInvalidInput)
	}
	if input.LatePenaltyPerMinute < 0 || input.EarlyLeavePenaltyPerMinute < 0 {
		return Rule{}, fmt.Errorf("%w: penalty rates must not be negative", ErrInvalidInput)
	}

	if _, err := s.store.UpsertRule(ctx, storeID, input); err != nil {
		return Rule{}, err
	}
	return s.store.ActiveRule(ctx, storeID)
}

func (s *Service) GetRule(ctx context.Context, actor auth.Actor, storeID string) (Rule, error) {
	return s.store.ActiveRule(ctx, storeID)
}
