package models

import (
	"time"

	"github.com/coachhub/coachhub/internal/shared/constants"
)

// NotificationModel represents the database model for in-app notifications.
type NotificationModel struct {
	ID        string  `gorm:"primaryKey;size:26"`
	UserID    string  `gorm:"not null;size:26;index:idx_notifications_user,priority:1"`
	Type      string  `gorm:"not null;size:16"`
	EventType string  `gorm:"not null;size:64;default:''"`
	Title     string  `gorm:"not null;size:200"`
	Content   string  `gorm:"not null;default:''"`
	RelatedID *string `gorm:"size:26"`
	ReadAt    *time.Time
	CreatedAt time.Time `gorm:"index:idx_notifications_user,priority:2"`
}

func (NotificationModel) TableName() string {
	return constants.TableNotifications
}
