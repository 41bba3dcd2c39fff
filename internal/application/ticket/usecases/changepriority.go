package usecases

import (
	"context"

	"github.com/coachhub/coachhub/internal/application/ticket/dto"
	"github.com/coachhub/coachhub/internal/domain/ticket"
	vo "github.com/coachhub/coachhub/internal/domain/ticket/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type ChangePriorityCommand struct {
	TicketID string
	Priority string
	Actor    Actor
}

// ChangePriorityUseCase re-prioritises a ticket and recomputes its SLA.
type ChangePriorityUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewChangePriorityUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *ChangePriorityUseCase {
	return &ChangePriorityUseCase{ticketRepo: ticketRepo, logger: logger}
}

func (uc *ChangePriorityUseCase) Execute(ctx context.Context, cmd ChangePriorityCommand) (*dto.TicketDTO, error) {
	if !cmd.Actor.Role.IsAdmin() {
		return nil, errors.NewForbiddenError("only admins can change ticket priority")
	}
	priority, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	t, err := loadVisible(ctx, uc.ticketRepo, cmd.TicketID, cmd.Actor)
	if err != nil {
		return nil, err
	}
	if t.Status().IsClosed() {
		return nil, errors.NewConflictError("ticket is closed")
	}

	old := t.Priority()
	if err := t.ChangePriority(priority); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if old != priority {
		if err := uc.ticketRepo.Update(ctx, t); err != nil {
			uc.logger.Errorw("failed to update ticket priority", "ticket_id", t.ID(), "error", err)
			return nil, err
		}
		uc.logger.Infow("ticket priority changed", "ticket_id", t.ID(), "from", old, "to", priority)
	}
	return dto.ToTicketDTO(t, nil, true, biztime.NowUTC()), nil
}
