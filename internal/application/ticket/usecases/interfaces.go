package usecases

import (
	"context"

	"github.com/coachhub/coachhub/internal/domain/shared/events"
	"github.com/coachhub/coachhub/internal/domain/ticket"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// Transactor runs fn inside a database transaction.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Actor identifies the caller of a ticket operation.
type Actor struct {
	UserID string
	Role   authorization.UserRole
}

// loadVisible returns the ticket if actor may see it. Tickets the actor
// cannot see are reported as missing.
func loadVisible(ctx context.Context, repo ticket.TicketRepository, ticketID string, actor Actor) (*ticket.Ticket, error) {
	t, err := repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil || !t.CanBeViewedBy(actor.UserID, actor.Role) {
		return nil, errors.NewNotFoundError("ticket not found")
	}
	return t, nil
}

func publish(publisher events.EventPublisher, log logger.Interface, e events.DomainEvent) {
	if err := publisher.Publish(e); err != nil {
		log.Warnw("failed to publish event", "event_type", e.GetEventType(), "error", err)
	}
}
