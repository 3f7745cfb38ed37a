package notifications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateNotification(ctx context.Context, workerID, title, message, link string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (worker_id, title, message, link)
    VALUES ($1, $2, $3, NULLIF($4, ''))
  `, workerID, title, message, link)
	return err
}

func (s *Store) WorkerEmail(ctx context.Context, workerID string) (string, error) {
	var email string
	err := s.DB.QueryRow(ctx, `SELECT email FROM workers WHERE id = $1 AND active`, workerID).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return email, err
}

func (s *Store) ListNotifications(ctx context.Context, workerID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, worker_id, title, message, COALESCE(link, ''), read_at, created_at
    FROM notifications
    WHERE worker_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, workerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.WorkerID, &n.Title, &n.Message, &n.Link, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountUnread(ctx context.Context, workerID string) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM notifications WHERE worker_id = $1 AND read_at IS NULL
  `, workerID).Scan(&total)
	return total, err
}

func (s *Store) MarkRead(ctx context.Context, workerID, notificationID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now()
    WHERE id = $1 AND worker_id = $2 AND read_at IS NULL
  `, notificationID, workerID)
	return err
}

func (s *Store) MarkAllRead(ctx context.Context, workerID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now()
    WHERE worker_id = $1 AND read_at IS NULL
  `, workerID)
	return err
}
