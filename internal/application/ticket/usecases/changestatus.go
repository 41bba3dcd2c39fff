package usecases

import (
	"context"

	"github.com/coachhub/coachhub/internal/application/ticket/dto"
	"github.com/coachhub/coachhub/internal/domain/shared/events"
	"github.com/coachhub/coachhub/internal/domain/ticket"
	vo "github.com/coachhub/coachhub/internal/domain/ticket/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type ChangeStatusCommand struct {
	TicketID string
	Actor    Actor
	Status   string
}

// ChangeStatusUseCase moves a ticket through its state machine. Admins and
// the assignee may make any allowed move; the creator may only close or
// reopen.
type ChangeStatusUseCase struct {
	ticketRepo ticket.TicketRepository
	publisher  events.EventPublisher
	logger     logger.Interface
}

func NewChangeStatusUseCase(ticketRepo ticket.TicketRepository, publisher events.EventPublisher, logger logger.Interface) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{ticketRepo: ticketRepo, publisher: publisher, logger: logger}
}

func (uc *ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing change ticket status use case", "ticket_id", cmd.TicketID, "status", cmd.Status)

	target, err := vo.NewTicketStatus(cmd.Status)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	t, err := loadVisible(ctx, uc.ticketRepo, cmd.TicketID, cmd.Actor)
	if err != nil {
		return nil, err
	}

	staff := cmd.Actor.Role.IsAdmin() || (t.AssigneeID() != nil && *t.AssigneeID() == cmd.Actor.UserID)
	if !staff && !target.IsClosed() && !target.IsReopened() {
		return nil, errors.NewForbiddenError("ticket creators can only close or reopen tickets")
	}

	old := t.Status()
	if old == target {
		return dto.ToTicketDTO(t, nil, false, biztime.NowUTC()), nil
	}
	if err := t.ChangeStatus(target); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}
	if err := uc.ticketRepo.Update(ctx, t); err != nil {
		uc.logger.Errorw("failed to update ticket status", "ticket_id", t.ID(), "error", err)
		return nil, err
	}

	publish(uc.publisher, uc.logger, ticket.NewTicketStatusChangedEvent(t, old, cmd.Actor.UserID))
	uc.logger.Infow("ticket status changed", "ticket_id", t.ID(), "from", old, "to", target)
	return dto.ToTicketDTO(t, nil, false, biztime.NowUTC()), nil
}
