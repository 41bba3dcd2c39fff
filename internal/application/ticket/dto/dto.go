package dto

import (
	"time"

	"github.com/coachhub/coachhub/internal/domain/ticket"
)

type CreateTicketRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description" binding:"required,max=5000"`
	Category    string  `json:"category" binding:"required,oneof=booking billing technical account other"`
	Priority    string  `json:"priority,omitempty" binding:"omitempty,oneof=low medium high urgent"`
	BookingID   *string `json:"booking_id,omitempty"`
}

type ListTicketsRequest struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	SortBy   string `form:"sort_by"`
	Order    string `form:"order"`
}

type AddCommentRequest struct {
	Content    string `json:"content" binding:"required,max=5000"`
	IsInternal bool   `json:"is_internal"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ChangePriorityRequest struct {
	Priority string `json:"priority" binding:"required,oneof=low medium high urgent"`
}

type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id" binding:"required"`
}

type TicketDTO struct {
	ID           string       `json:"id"`
	Number       string       `json:"number"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Category     string       `json:"category"`
	Priority     string       `json:"priority"`
	Status       string       `json:"status"`
	CreatorID    string       `json:"creator_id"`
	AssigneeID   *string      `json:"assignee_id,omitempty"`
	BookingID    *string      `json:"booking_id,omitempty"`
	SLADueTime   *time.Time   `json:"sla_due_time,omitempty"`
	ResponseTime *time.Time   `json:"response_time,omitempty"`
	ResolvedTime *time.Time   `json:"resolved_time,omitempty"`
	IsOverdue    bool         `json:"is_overdue"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	ClosedAt     *time.Time   `json:"closed_at,omitempty"`
	Comments     []CommentDTO `json:"comments,omitempty"`
}

type CommentDTO struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListTicketsResponse struct {
	Tickets  []*TicketDTO `json:"tickets"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// ToTicketDTO maps t. Internal comments are dropped unless showInternal.
func ToTicketDTO(t *ticket.Ticket, comments []*ticket.Comment, showInternal bool, now time.Time) *TicketDTO {
	if t == nil {
		return nil
	}

	out := &TicketDTO{
		ID:           t.ID(),
		Number:       t.Number(),
		Title:        t.Title(),
		Description:  t.Description(),
		Category:     t.Category().String(),
		Priority:     t.Priority().String(),
		Status:       t.Status().String(),
		CreatorID:    t.CreatorID(),
		AssigneeID:   t.AssigneeID(),
		BookingID:    t.BookingID(),
		SLADueTime:   t.SLADueTime(),
		ResponseTime: t.ResponseTime(),
		ResolvedTime: t.ResolvedTime(),
		IsOverdue:    t.IsOverdue(now),
		CreatedAt:    t.CreatedAt(),
		UpdatedAt:    t.UpdatedAt(),
		ClosedAt:     t.ClosedAt(),
	}
	for _, c := range comments {
		if c.IsInternal() && !showInternal {
			continue
		}
		out.Comments = append(out.Comments, ToCommentDTO(c))
	}
	return out
}

func ToCommentDTO(c *ticket.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		UserID:     c.UserID(),
		Content:    c.Content(),
		IsInternal: c.IsInternal(),
		CreatedAt:  c.CreatedAt(),
	}
}
