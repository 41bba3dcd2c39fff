package models

import (
	"time"

	"github.com/coachhub/coachhub/internal/shared/constants"
)

// TicketModel represents the database model for support tickets.
type TicketModel struct {
	ID           string     `gorm:"primaryKey;size:26"`
	Number       string     `gorm:"uniqueIndex:idx_tickets_number;not null;size:32"`
	Title        string     `gorm:"not null;size:200"`
	Description  string     `gorm:"not null"`
	Category     string     `gorm:"not null;size:16"`
	Priority     string     `gorm:"not null;size:16"`
	Status       string     `gorm:"not null;size:16;index:idx_tickets_status"`
	CreatorID    string     `gorm:"not null;size:26;index:idx_tickets_creator"`
	AssigneeID   *string    `gorm:"size:26"`
	BookingID    *string    `gorm:"size:26"`
	SLADueTime   *time.Time `gorm:"column:sla_due_time"`
	ResponseTime *time.Time
	ResolvedTime *time.Time
	ClosedAt     *time.Time
	Version      int `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

type TicketCommentModel struct {
	ID         string    `gorm:"primaryKey;size:26"`
	TicketID   string    `gorm:"not null;size:26;index:idx_ticket_comments_ticket,priority:1"`
	UserID     string    `gorm:"not null;size:26"`
	Content    string    `gorm:"not null"`
	IsInternal bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"index:idx_ticket_comments_ticket,priority:2"`
	UpdatedAt  time.Time
}

func (TicketCommentModel) TableName() string {
	return constants.TableTicketComments
}
