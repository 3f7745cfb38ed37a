package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, workerID, title, message, link string) error
	WorkerEmail(ctx context.Context, workerID string) (string, error)
	ListNotifications(ctx context.Context, workerID string, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, workerID string) (int, error)
	MarkRead(ctx context.Context, workerID, notificationID string) error
	MarkAllRead(ctx context.Context, workerID string) error
}
