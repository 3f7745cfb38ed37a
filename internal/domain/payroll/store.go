package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) MonthlyWorkerHours(ctx context.Context, monthStart, monthEnd time.Time, storeID string) ([]WorkerHours, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT w.id, w.store_id, COALESCE(SUM(t.duration_minutes), 0), w.hourly_rate
    FROM workers w
    LEFT JOIN time_logs t ON t.worker_id = w.id
      AND t.check_out IS NOT NULL
      AND t.check_in >= $1 AND t.check_in < $2
    WHERE w.active AND w.store_id IS NOT NULL
      AND ($3 = '' OR w.store_id = $3::uuid)
    GROUP BY w.id, w.store_id, w.hourly_rate
    ORDER BY w.id
  `, monthStart, monthEnd, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorkerHours
	for rows.Next() {
		var wh WorkerHours
		if err := rows.Scan(&wh.WorkerID, &wh.StoreID, &wh.Minutes, &wh.HourlyRate); err != nil {
			return nil, err
		}
		out = append(out, wh)
	}
	return out, rows.Err()
}

func (s *PGStore) UpsertDraft(ctx context.Context, workerID, storeID, month string, totalMinutes int, hourlyRate, grossPay float64) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payrolls (worker_id, store_id, month, total_minutes, hourly_rate, gross_pay, final_pay, status)
    VALUES ($1, $2, $3, $4, $5, $6, $6, 'DRAFT')
    ON CONFLICT (worker_id, month) DO UPDATE
    SET total_minutes = EXCLUDED.total_minutes,
        hourly_rate = EXCLUDED.hourly_rate,
        gross_pay = EXCLUDED.gross_pay,
        final_pay = EXCLUDED.gross_pay + payrolls.adjustment_total,
        updated_at = now()
    WHERE payrolls.status = 'DRAFT'
  `, workerID, storeID, month, totalMinutes, hourlyRate, grossPay)
	return err
}

const payrollColumns = `p.id, p.worker_id, w.name, p.store_id, p.month, p.total_minutes,
  p.hourly_rate, p.gross_pay, p.adjustment_total, p.final_pay,
  COALESCE(p.note, ''), p.status, p.generated_at, p.updated_at`

func scanPayroll(row pgx.Row) (Payroll, error) {
	var p Payroll
	err := row.Scan(&p.ID, &p.WorkerID, &p.WorkerName, &p.StoreID, &p.Month, &p.TotalMinutes,
		&p.HourlyRate, &p.GrossPay, &p.AdjustmentTotal, &p.FinalPay,
		&p.Note, &p.Status, &p.GeneratedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrNotFound
	}
	if err != nil {
		return Payroll{}, err
	}
	return p, nil
}

func (s *PGStore) GetPayroll(ctx context.Context, payrollID string) (Payroll, error) {
	return scanPayroll(s.DB.QueryRow(ctx, `
    SELECT `+payrollColumns+`
    FROM payrolls p JOIN workers w ON p.worker_id = w.id
    WHERE p.id = $1
  `, payrollID))
}

func (s *PGStore) GetPayrollByWorkerMonth(ctx context.Context, workerID, month string) (Payroll, error) {
	return scanPayroll(s.DB.QueryRow(ctx, `
    SELECT `+payrollColumns+`
    FROM payrolls p JOIN workers w ON p.worker_id = w.id
    WHERE p.worker_id = $1 AND p.month = $2
  `, workerID, month))
}

func (s *PGStore) ListPayrolls(ctx context.Context, month, storeID string) ([]Payroll, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+payrollColumns+`
    FROM payrolls p JOIN workers w ON p.worker_id = w.id
    WHERE ($1 = '' OR p.month = $1)
      AND ($2 = '' OR p.store_id = $2::uuid)
    ORDER BY p.month DESC, w.name
  `, month, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PGStore) UpdatePayroll(ctx context.Context, payrollID string, adjustmentTotal *float64, note, status *string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payrolls
    SET adjustment_total = COALESCE($1, adjustment_total),
        final_pay = gross_pay + COALESCE($1, adjustment_total),
        note = COALESCE($2, note),
        status = COALESCE($3, status),
        updated_at = now()
    WHERE id = $4
  `, adjustmentTotal, note, status, payrollID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) ActiveRule(ctx context.Context, storeID string) (Rule, error) {
	var r Rule
	err := s.DB.QueryRow(ctx, `
    SELECT id, store_id, hourly_wage, daily_overtime_threshold, overtime_multiplier,
           late_penalty_per_minute, early_leave_penalty_per_minute, active, created_at
    FROM payroll_rules
    WHERE store_id = $1 AND active
  `, storeID).Scan(&r.ID, &r.StoreID, &r.HourlyWage, &r.DailyOvertimeThreshold, &r.OvertimeMultiplier,
		&r.LatePenaltyPerMinute, &r.EarlyLeavePenaltyPerMinute, &r.Active, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rule{}, ErrNotFound
	}
	return r, err
}

func (s *PGStore) UpsertRule(ctx context.Context, storeID string, input RuleInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_rules (store_id, hourly_wage, daily_overtime_threshold, overtime_multiplier,
                               late_penalty_per_minute, early_leave_penalty_per_minute, active)
    VALUES ($1, $2, $3, $4, $5, $6, true)
    ON CONFLICT (store_id) WHERE active DO UPDATE
    SET hourly_wage = EXCLUDED.hourly_wage,
        daily_overtime_threshold = EXCLUDED.daily_overtime_threshold,
        overtime_multiplier = EXCLUDED.overtime_multiplier,
        late_penalty_per_minute = EXCLUDED.late_penalty_per_minute,
        early_leave_penalty_per_minute = EXCLUDED.early_leave_penalty_per_minute
    RETURNING id
  `, storeID, input.HourlyWage, input.DailyOvertimeThreshold, input.OvertimeMultiplier,
		input.LatePenaltyPerMinute, input.EarlyLeavePenaltyPerMinute).Scan(&id)
	return id, err
}

func (s *PGStore) ShiftWindow(ctx context.Context, shiftID string) (string, time.Time, time.Time, error) {
	var storeID string
	var start, end time.Time
	err := s.DB.QueryRow(ctx, `
    SELECT store_id, start_at, end_at FROM shifts WHERE id = $1
  `, shiftID).Scan(&storeID, &start, &end)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", time.Time{}, time.Time{}, ErrNotFound
	}
	return storeID, start, end, err
}

func (s *PGStore) WorkLogExists(ctx context.Context, timeLogID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM work_logs WHERE time_log_id = $1)
  `, timeLogID).Scan(&exists)
	return exists, err
}

func (s *PGStore) InsertWorkLog(ctx context.Context, wl WorkLog) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO work_logs (worker_id, shift_id, time_log_id, rule_id, actual_hours, base_hours,
                           overtime_hours, base_pay, overtime_pay, late_minutes, early_leave_minutes,
                           penalty, total_pay)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    RETURNING id
  `, wl.WorkerID, wl.ShiftID, wl.TimeLogID, wl.RuleID, wl.ActualHours, wl.BaseHours,
		wl.OvertimeHours, wl.BasePay, wl.OvertimePay, wl.LateMinutes, wl.EarlyLeaveMinutes,
		wl.Penalty, wl.TotalPay).Scan(&id)
	return id, err
}

func (s *PGStore) ListWorkLogs(ctx context.Context, workerID string, from, to time.Time) ([]WorkLog, error) {
	// A month is the shift's calendar month, not the checkout time: an
	// overnight shift that ends past midnight on the 1st still belongs to
	// the month it started in.
	rows, err := s.DB.Query(ctx, `
    SELECT wl.id, wl.worker_id, wl.shift_id, wl.time_log_id, wl.rule_id, wl.actual_hours,
           wl.base_hours, wl.overtime_hours, wl.base_pay, wl.overtime_pay, wl.late_minutes,
           wl.early_leave_minutes, wl.penalty, wl.total_pay, wl.created_at
    FROM work_logs wl
    JOIN shifts sh ON sh.id = wl.shift_id
    WHERE wl.worker_id = $1 AND sh.start_at >= $2 AND sh.start_at < $3
    ORDER BY sh.start_at
  `, workerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorkLog
	for rows.Next() {
		var wl WorkLog
		if err := rows.Scan(&wl.ID, &wl.WorkerID, &wl.ShiftID, &wl.TimeLogID, &wl.RuleID,
			&wl.ActualHours, &wl.BaseHours, &wl.OvertimeHours, &wl.BasePay, &wl.OvertimePay,
			&wl.LateMinutes, &wl.EarlyLeaveMinutes, &wl.Penalty, &wl.TotalPay, &wl.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, wl)
	}
	return out, rows.Err()
}

func (s *PGStore) CreateAdjustment(ctx context.Context, workerID, month, adjType string, amount float64, reason, createdBy string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_adjustments (worker_id, month, type, amount, reason, created_by)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id
  `, workerID, month, adjType, amount, reason, createdBy).Scan(&id)
	return id, err
}

func (s *PGStore) ListAdjustments(ctx context.Context, workerID, month string) ([]Adjustment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, worker_id, month, type, amount, COALESCE(reason, ''), created_by, created_at
    FROM payroll_adjustments
    WHERE worker_id = $1 AND month = $2
    ORDER BY created_at
  `, workerID, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Adjustment
	for rows.Next() {
		var a Adjustment
		if err := rows.Scan(&a.ID, &a.WorkerID, &a.Month, &a.Type, &a.Amount, &a.Reason, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PGStore) WorkerStoreID(ctx context.Context, workerID string) (string, error) {
	var storeID string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(store_id::text, '') FROM workers WHERE id = $1 AND active
  `, workerID).Scan(&storeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return storeID, err
}
