package ticket

import (
	"context"

	vo "github.com/coachhub/coachhub/internal/domain/ticket/valueobjects"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *Ticket) error
	Update(ctx context.Context, ticket *Ticket) error
	GetByID(ctx context.Context, ticketID string) (*Ticket, error)
	GetByNumber(ctx context.Context, number string) (*Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)
}

type TicketFilter struct {
	Status     *vo.TicketStatus
	Priority   *vo.Priority
	Category   *vo.Category
	CreatorID  *string
	AssigneeID *string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	// ListByTicket returns comments oldest first. Internal comments are
	// omitted unless includeInternal is set.
	ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]*Comment, error)
}
