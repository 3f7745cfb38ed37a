package schedule

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *PGStore) CreateTask(ctx context.Context, input TaskInput, createdBy string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO tasks (store_id, shift_id, worker_id, title, status, created_by)
    VALUES ($1, NULLIF($2, '')::uuid, $3, $4, 'OPEN', $5)
    RETURNING id
  `, input.StoreID, input.ShiftID, input.WorkerID, input.Title, createdBy).Scan(&id)
	return id, err
}

func (s *PGStore) GetTask(ctx context.Context, taskID string) (Task, error) {
	var t Task
	err := s.DB.QueryRow(ctx, `
    SELECT id, store_id, COALESCE(shift_id::text, ''), worker_id, title, status, created_by, created_at
    FROM tasks
    WHERE id = $1
  `, taskID).Scan(&t.ID, &t.StoreID, &t.ShiftID, &t.WorkerID, &t.Title, &t.Status, &t.CreatedBy, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (s *PGStore) ListTasks(ctx context.Context, storeID, workerID, status string) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, store_id, COALESCE(shift_id::text, ''), worker_id, title, status, created_by, created_at
    FROM tasks
    WHERE ($1 = '' OR store_id = $1::uuid)
      AND ($2 = '' OR worker_id = $2::uuid)
      AND ($3 = '' OR status = $3)
    ORDER BY created_at DESC
  `, storeID, workerID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.StoreID, &t.ShiftID, &t.WorkerID, &t.Title, &t.Status, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *PGStore) UpdateTaskStatus(ctx context.Context, taskID, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE tasks SET status = $1 WHERE id = $2
  `, status, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
