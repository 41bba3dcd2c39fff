package notification

import "context"

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	BulkCreate(ctx context.Context, notifications []*Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	Update(ctx context.Context, notification *Notification) error
	ListByUserID(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
}
