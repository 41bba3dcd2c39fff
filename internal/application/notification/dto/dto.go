package dto

import (
	"time"

	"github.com/coachhub/coachhub/internal/domain/notification"
)

type ListNotificationsRequest struct {
	UnreadOnly bool `form:"unread"`
	Page       int  `form:"page"`
	PageSize   int  `form:"page_size"`
}

type NotificationDTO struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	EventType string     `json:"event_type"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	RelatedID *string    `json:"related_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type ListNotificationsResponse struct {
	Notifications []*NotificationDTO `json:"notifications"`
	Total         int64              `json:"total"`
	UnreadCount   int64              `json:"unread_count"`
	Page          int                `json:"page"`
	PageSize      int                `json:"page_size"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// RealtimeFrame is what the notification websocket writes to clients.
type RealtimeFrame struct {
	Type         string           `json:"type"`
	Notification *NotificationDTO `json:"notification"`
}

const FrameTypeNotification = "notification"

func ToNotificationDTO(n *notification.Notification) *NotificationDTO {
	return &NotificationDTO{
		ID:        n.ID(),
		Type:      n.Type().String(),
		EventType: n.EventType(),
		Title:     n.Title(),
		Content:   n.Content(),
		RelatedID: n.RelatedID(),
		IsRead:    n.IsRead(),
		ReadAt:    n.ReadAt(),
		CreatedAt: n.CreatedAt(),
	}
}
