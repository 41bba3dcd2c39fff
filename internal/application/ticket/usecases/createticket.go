package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/ticket/dto"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/shared/events"
	"github.com/coachhub/coachhub/internal/domain/ticket"
	vo "github.com/coachhub/coachhub/internal/domain/ticket/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type CreateTicketCommand struct {
	Actor Actor
	dto.CreateTicketRequest
}

type CreateTicketUseCase struct {
	ticketRepo  ticket.TicketRepository
	bookingRepo booking.Repository
	numbers     ticket.NumberGenerator
	publisher   events.EventPublisher
	logger      logger.Interface
}

func NewCreateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	bookingRepo booking.Repository,
	numbers ticket.NumberGenerator,
	publisher events.EventPublisher,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo:  ticketRepo,
		bookingRepo: bookingRepo,
		numbers:     numbers,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing create ticket use case", "creator_id", cmd.Actor.UserID, "category", cmd.Category)

	category, err := vo.NewCategory(cmd.Category)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	var priority vo.Priority
	if cmd.Priority != "" {
		if priority, err = vo.NewPriority(cmd.Priority); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	if cmd.BookingID != nil && *cmd.BookingID != "" {
		b, err := uc.bookingRepo.GetByID(ctx, *cmd.BookingID)
		if err != nil {
			return nil, fmt.Errorf("failed to load booking: %w", err)
		}
		if b == nil || (!cmd.Actor.Role.IsAdmin() && !b.IsParticipant(cmd.Actor.UserID)) {
			return nil, errors.NewValidationError("booking not found", *cmd.BookingID)
		}
	}

	number, err := uc.numbers.Generate(ctx)
	if err != nil {
		uc.logger.Errorw("failed to generate ticket number", "error", err)
		return nil, fmt.Errorf("failed to generate ticket number: %w", err)
	}

	t, err := ticket.NewTicket(number, cmd.Title, cmd.Description, category, priority, cmd.Actor.UserID, cmd.BookingID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.ticketRepo.Create(ctx, t); err != nil {
		uc.logger.Errorw("failed to save ticket", "number", number, "error", err)
		return nil, fmt.Errorf("failed to save ticket: %w", err)
	}

	publish(uc.publisher, uc.logger, ticket.NewTicketCreatedEvent(t))
	uc.logger.Infow("ticket created", "ticket_id", t.ID(), "number", t.Number(), "sla_due", t.SLADueTime())
	return dto.ToTicketDTO(t, nil, false, biztime.NowUTC()), nil
}
