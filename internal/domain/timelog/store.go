package timelog

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

const logColumns = `id, worker_id, store_id, COALESCE(shift_id::text, ''), check_in, check_out, duration_minutes, recorded_by, created_at`

func scanLog(row pgx.Row) (TimeLog, error) {
	var log TimeLog
	err := row.Scan(&log.ID, &log.WorkerID, &log.StoreID, &log.ShiftID, &log.CheckIn, &log.CheckOut, &log.DurationMinutes, &log.RecordedBy, &log.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return TimeLog{}, ErrNotFound
	}
	if err != nil {
		return TimeLog{}, err
	}
	return log, nil
}

func (s *PGStore) OpenLog(ctx context.Context, workerID string) (TimeLog, error) {
	return scanLog(s.DB.QueryRow(ctx, `
    SELECT `+logColumns+`
    FROM time_logs
    WHERE worker_id = $1 AND check_out IS NULL
  `, workerID))
}

func (s *PGStore) HasOpenLog(ctx context.Context, workerID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM time_logs WHERE worker_id = $1 AND check_out IS NULL)
  `, workerID).Scan(&exists)
	return exists, err
}

func (s *PGStore) CreateOpenLog(ctx context.Context, workerID, storeID, shiftID string, checkIn time.Time, recordedBy string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO time_logs (worker_id, store_id, shift_id, check_in, recorded_by)
    VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5)
    RETURNING id
  `, workerID, storeID, shiftID, checkIn, recordedBy).Scan(&id)
	return id, err
}

func (s *PGStore) CloseLog(ctx context.Context, logID string, checkOut time.Time, durationMinutes int, recordedBy string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE time_logs
    SET check_out = $1, duration_minutes = $2, recorded_by = $3
    WHERE id = $4 AND check_out IS NULL
  `, checkOut, durationMinutes, recordedBy, logID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PGStore) CreateClosedLog(ctx context.Context, workerID, storeID, shiftID string, checkIn, checkOut time.Time, durationMinutes int, recordedBy string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO time_logs (worker_id, store_id, shift_id, check_in, check_out, duration_minutes, recorded_by)
    VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7)
    RETURNING id
  `, workerID, storeID, shiftID, checkIn, checkOut, durationMinutes, recordedBy).Scan(&id)
	return id, err
}

func (s *PGStore) GetLog(ctx context.Context, logID string) (TimeLog, error) {
	return scanLog(s.DB.QueryRow(ctx, `
    SELECT `+logColumns+`
    FROM time_logs
    WHERE id = $1
  `, logID))
}

func (s *PGStore) ListLogs(ctx context.Context, workerID, storeID string, from, to time.Time) ([]TimeLog, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+logColumns+`
    FROM time_logs
    WHERE ($1 = '' OR worker_id = $1::uuid)
      AND ($2 = '' OR store_id = $2::uuid)
      AND check_in >= $3 AND check_in < $4
    ORDER BY check_in DESC
  `, workerID, storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []TimeLog
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
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

func (s *PGStore) AssignedToShift(ctx context.Context, shiftID, workerID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM shift_assignments
      WHERE shift_id = $1 AND worker_id = $2 AND status <> 'DECLINED'
    )
  `, shiftID, workerID).Scan(&exists)
	return exists, err
}

func (s *PGStore) OpenShiftLogs(ctx context.Context, cutoff time.Time) ([]OpenShiftLog, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.id, t.worker_id, t.shift_id, t.check_in, sh.end_at
    FROM time_logs t
    JOIN shifts sh ON t.shift_id = sh.id
    WHERE t.check_out IS NULL AND sh.end_at <= $1
    ORDER BY sh.end_at
  `, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OpenShiftLog
	for rows.Next() {
		var entry OpenShiftLog
		if err := rows.Scan(&entry.LogID, &entry.WorkerID, &entry.ShiftID, &entry.CheckIn, &entry.ShiftEnd); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *PGStore) WorkerMinutes(ctx context.Context, workerID string, from, to time.Time) (WorkerSummary, error) {
	summary := WorkerSummary{WorkerID: workerID}
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(duration_minutes), 0), COUNT(*)
    FROM time_logs
    WHERE worker_id = $1 AND check_out IS NOT NULL
      AND check_in >= $2 AND check_in < $3
  `, workerID, from, to).Scan(&summary.TotalMinutes, &summary.LogCount)
	if err != nil {
		return WorkerSummary{}, err
	}
	summary.TotalHours = float64(summary.TotalMinutes) / 60
	return summary, nil
}

func (s *PGStore) StoreMinutes(ctx context.Context, storeID string, from, to time.Time) (StoreSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT worker_id, COALESCE(SUM(duration_minutes), 0), COUNT(*)
    FROM time_logs
    WHERE store_id = $1 AND check_out IS NOT NULL
      AND check_in >= $2 AND check_in < $3
    GROUP BY worker_id
    ORDER BY worker_id
  `, storeID, from, to)
	if err != nil {
		return StoreSummary{}, err
	}
	defer rows.Close()

	summary := StoreSummary{StoreID: storeID}
	for rows.Next() {
		var w WorkerSummary
		if err := rows.Scan(&w.WorkerID, &w.TotalMinutes, &w.LogCount); err != nil {
			return StoreSummary{}, err
		}
		w.TotalHours = float64(w.TotalMinutes) / 60
		summary.TotalMinutes += w.TotalMinutes
		summary.Workers = append(summary.Workers, w)
	}
	return summary, rows.Err()
}
