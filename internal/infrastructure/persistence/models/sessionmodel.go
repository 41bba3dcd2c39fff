package models

import (
	"time"

	"github.com/coachhub/coachhub/internal/shared/constants"
)

type SessionModel struct {
	ID             string    `gorm:"primaryKey;size:26"`
	BookingID      string    `gorm:"not null;size:26;uniqueIndex:idx_sessions_booking"`
	CoachID        string    `gorm:"not null;size:26"`
	MenteeID       *string   `gorm:"size:26"`
	ScheduledStart time.Time `gorm:"not null"`
	ScheduledEnd   time.Time `gorm:"not null;index:idx_sessions_status_end,priority:2"`
	Status         string    `gorm:"not null;size:16;index:idx_sessions_status_end,priority:1"`
	CoachNotes     string    `gorm:"not null;default:''"`
	Rating         *int
	Feedback       string `gorm:"not null;default:''"`
	CompletedAt    *time.Time
	Version        int `gorm:"not null;default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (SessionModel) TableName() string {
	return constants.TableSessions
}
