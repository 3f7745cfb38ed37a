package notifications

import (
	"context"
	"log/slog"
	"time"
)

type Notification struct {
	ID        string     `json:"id"`
	WorkerID  string     `json:"workerId"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      string     `json:"link,omitempty"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store       StoreAPI
	Mailer      Mailer
	DefaultFrom string
}

func New(store StoreAPI, mailer Mailer) *Service {
	return &Service{store: store, Mailer: mailer, DefaultFrom: "no-reply@shiftdesk.local"}
}

// Notify stores the message for the worker and mirrors it by email when a
// mailer is configured. Email trouble is logged and dropped; callers treat
// the whole thing as fire-and-forget.
func (s *Service) Notify(ctx context.Context, workerID, title, message, link string) error {
	if err := s.store.CreateNotification(ctx, workerID, title, message, link); err != nil {
		return err
	}

	if s.Mailer == nil {
		return nil
	}
	email, err := s.store.WorkerEmail(ctx, workerID)
	if err != nil {
		slog.Warn("notification email lookup failed", "workerId", workerID, "error", err)
		return nil
	}
	if email == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, email, title, message); err != nil {
		slog.Warn("notification email send failed", "workerId", workerID, "error", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, workerID string, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, workerID, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, workerID string) (int, error) {
	return s.store.CountUnread(ctx, workerID)
}

func (s *Service) MarkRead(ctx context.Context, workerID, notificationID string) error {
	return s.store.MarkRead(ctx, workerID, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, workerID string) error {
	return s.store.MarkAllRead(ctx, workerID)
}
