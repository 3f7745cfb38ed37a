package ranking

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{DB: db}
}

// Punctual means checked in within 15 minutes of the scheduled start and
// out within 15 minutes of the scheduled end.
func (s *PGStore) WorkerStats(ctx context.Context, storeID string, from, to time.Time) ([]WorkerStats, error) {
	rows, err := s.DB.Query(ctx, `
    WITH shift_stats AS (
      SELECT a.worker_id,
             COUNT(*) AS total_shifts,
             COUNT(t.id) AS attended,
             COUNT(t.id) FILTER (
               WHERE t.check_in <= sh.start_at + interval '15 minutes'
                 AND t.check_out >= sh.end_at - interval '15 minutes'
             ) AS punctual
      FROM shift_assignments a
      JOIN shifts sh ON a.shift_id = sh.id
      LEFT JOIN time_logs t ON t.shift_id = sh.id AND t.worker_id = a.worker_id
        AND t.check_out IS NOT NULL
      WHERE a.status <> 'DECLINED'
        AND sh.start_at >= $2 AND sh.start_at < $3
      GROUP BY a.worker_id
    ),
    minutes AS (
      SELECT worker_id, COALESCE(SUM(duration_minutes), 0) AS total_minutes
      FROM time_logs
      WHERE check_out IS NOT NULL AND check_in >= $2 AND check_in < $3
      GROUP BY worker_id
    ),
    task_stats AS (
      SELECT worker_id,
             COUNT(*) AS assigned,
             COUNT(*) FILTER (WHERE status = 'DONE') AS completed
      FROM tasks
      WHERE created_at >= $2 AND created_at < $3
      GROUP BY worker_id
    )
    SELECT w.id, w.name,
           COALESCE(ss.total_shifts, 0), COALESCE(ss.attended, 0), COALESCE(ss.punctual, 0),
           COALESCE(m.total_minutes, 0),
           COALESCE(ts.assigned, 0), COALESCE(ts.completed, 0)
    FROM workers w
    LEFT JOIN shift_stats ss ON ss.worker_id = w.id
    LEFT JOIN minutes m ON m.worker_id = w.id
    LEFT JOIN task_stats ts ON ts.worker_id = w.id
    WHERE w.active AND w.role = 'staff'
      AND ($1 = '' OR w.store_id = $1::uuid)
    ORDER BY w.name
  `, storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorkerStats
	for rows.Next() {
		var st WorkerStats
		if err := rows.Scan(&st.WorkerID, &st.Name, &st.TotalShifts, &st.AttendedShifts,
			&st.PunctualShifts, &st.TotalMinutes, &st.TasksAssigned, &st.TasksCompleted); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
