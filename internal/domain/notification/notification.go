package notification

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/coachhub/coachhub/internal/domain/notification/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

// Notification is an in-app inbox entry for one user.
type Notification struct {
	id               string
	userID           string
	notificationType vo.NotificationType
	eventType        string
	title            string
	content          string
	relatedID        *string
	readAt           *time.Time
	createdAt        time.Time
}

func NewNotification(
	userID string,
	notificationType vo.NotificationType,
	eventType string,
	title string,
	content string,
	relatedID *string,
) (*Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if !notificationType.IsValid() {
		return nil, fmt.Errorf("invalid notification type")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if len([]rune(title)) > 200 {
		return nil, fmt.Errorf("title exceeds maximum length of 200 characters")
	}
	if len([]rune(content)) > 5000 {
		return nil, fmt.Errorf("content exceeds maximum length of 5000 characters")
	}

	return &Notification{
		id:               id.New(),
		userID:           userID,
		notificationType: notificationType,
		eventType:        eventType,
		title:            title,
		content:          content,
		relatedID:        relatedID,
		createdAt:        biztime.NowUTC(),
	}, nil
}

func ReconstructNotification(
	notificationID string,
	userID string,
	notificationType vo.NotificationType,
	eventType string,
	title string,
	content string,
	relatedID *string,
	readAt *time.Time,
	createdAt time.Time,
) (*Notification, error) {
	if notificationID == "" {
		return nil, fmt.Errorf("notification ID is required")
	}
	if !notificationType.IsValid() {
		return nil, fmt.Errorf("invalid notification type")
	}

	return &Notification{
		id:               notificationID,
		userID:           userID,
		notificationType: notificationType,
		eventType:        eventType,
		title:            title,
		content:          content,
		relatedID:        relatedID,
		readAt:           readAt,
		createdAt:        createdAt,
	}, nil
}

func (n *Notification) ID() string                { return n.id }
func (n *Notification) UserID() string            { return n.userID }
func (n *Notification) Type() vo.NotificationType { return n.notificationType }
func (n *Notification) EventType() string         { return n.eventType }
func (n *Notification) Title() string             { return n.title }
func (n *Notification) Content() string           { return n.content }
func (n *Notification) RelatedID() *string        { return n.relatedID }
func (n *Notification) ReadAt() *time.Time        { return n.readAt }
func (n *Notification) CreatedAt() time.Time      { return n.createdAt }

func (n *Notification) IsRead() bool {
	return n.readAt != nil
}

func (n *Notification) MarkAsRead() {
	if n.readAt != nil {
		return
	}
	now := biztime.NowUTC()
	n.readAt = &now
}
