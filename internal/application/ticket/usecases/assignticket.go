package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/ticket/dto"
	"github.com/coachhub/coachhub/internal/domain/shared/events"
	"github.com/coachhub/coachhub/internal/domain/ticket"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type AssignTicketCommand struct {
	TicketID   string
	AssigneeID string
	Actor      Actor
}

type AssignTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	userRepo   domainUser.Repository
	publisher  events.EventPublisher
	logger     logger.Interface
}

func NewAssignTicketUseCase(
	ticketRepo ticket.TicketRepository,
	userRepo domainUser.Repository,
	publisher events.EventPublisher,
	logger logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute assigns the ticket to an admin. A new ticket becomes open.
func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing assign ticket use case", "ticket_id", cmd.TicketID, "assignee_id", cmd.AssigneeID)

	if !cmd.Actor.Role.IsAdmin() {
		return nil, errors.NewForbiddenError("only admins can assign tickets")
	}
	t, err := loadVisible(ctx, uc.ticketRepo, cmd.TicketID, cmd.Actor)
	if err != nil {
		return nil, err
	}

	assignee, err := uc.userRepo.GetByID(ctx, cmd.AssigneeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignee: %w", err)
	}
	if assignee == nil || assignee.IsDeleted() {
		return nil, errors.NewValidationError("assignee not found", cmd.AssigneeID)
	}
	if !assignee.Role().IsAdmin() {
		return nil, errors.NewValidationError("tickets can only be assigned to admins")
	}

	if err := t.AssignTo(assignee.ID()); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}
	if err := uc.ticketRepo.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to assign ticket", "ticket_id", t.ID(), "error", err)
		return nil, err
	}

	publish(uc.publisher, uc.logger, ticket.NewTicketAssignedEvent(t, cmd.Actor.UserID))
	uc.logger.Infow("ticket assigned", "ticket_id", t.ID(), "assignee_id", assignee.ID())
	return dto.ToTicketDTO(t, nil, true, biztime.NowUTC()), nil
}
