package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/ticket/dto"
	"github.com/coachhub/coachhub/internal/domain/ticket"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type GetTicketUseCase struct {
	ticketRepo  ticket.TicketRepository
	commentRepo ticket.CommentRepository
	logger      logger.Interface
}

func NewGetTicketUseCase(ticketRepo ticket.TicketRepository, commentRepo ticket.CommentRepository, logger logger.Interface) *GetTicketUseCase {
	return &GetTicketUseCase{ticketRepo: ticketRepo, commentRepo: commentRepo, logger: logger}
}

// Execute returns the ticket with its comment thread. Internal comments are
// only loaded for admins.
func (uc *GetTicketUseCase) Execute(ctx context.Context, ticketID string, actor Actor) (*dto.TicketDTO, error) {
	t, err := loadVisible(ctx, uc.ticketRepo, ticketID, actor)
	if err != nil {
		return nil, err
	}

	admin := actor.Role.IsAdmin()
	comments, err := uc.commentRepo.ListByTicket(ctx, t.ID(), admin)
	if err != nil {
		uc.logger.Errorw("failed to load ticket comments", "ticket_id", t.ID(), "error", err)
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return dto.ToTicketDTO(t, comments, admin, biztime.NowUTC()), nil
}
