package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/shared/events"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type CreateProposalCommand struct {
	BookingID string
	UserID    string
	Kind      string
	Start     *time.Time
	End       *time.Time
	Reason    string
}

type CreateProposalUseCase struct {
	bookingRepo  booking.Repository
	proposalRepo booking.ProposalRepository
	publisher    events.EventPublisher
	ttl          time.Duration
	logger       logger.Interface
}

func NewCreateProposalUseCase(
	bookingRepo booking.Repository,
	proposalRepo booking.ProposalRepository,
	publisher events.EventPublisher,
	ttl time.Duration,
	logger logger.Interface,
) *CreateProposalUseCase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CreateProposalUseCase{
		bookingRepo:  bookingRepo,
		proposalRepo: proposalRepo,
		publisher:    publisher,
		ttl:          ttl,
		logger:       logger,
	}
}

// Execute records a reschedule or cancel proposal for the counterparty to
// answer. A booking has at most one pending proposal.
func (uc *CreateProposalUseCase) Execute(ctx context.Context, cmd CreateProposalCommand) (*dto.ProposalDTO, error) {
	uc.logger.Infow("executing create proposal use case", "booking_id", cmd.BookingID, "user_id", cmd.UserID, "kind", cmd.Kind)

	kind := booking.ProposalKind(cmd.Kind)
	if cmd.Kind == "" {
		kind = booking.ProposalKindReschedule
	}
	if !kind.IsValid() {
		return nil, errors.NewValidationError("invalid proposal kind", cmd.Kind)
	}

	b, err := loadParticipantBooking(ctx, uc.bookingRepo, cmd.BookingID, cmd.UserID, false)
	if err != nil {
		return nil, err
	}
	if kind == booking.ProposalKindReschedule && b.Provider() == integration.ProviderCalendly {
		return nil, errors.NewBadRequestError("Calendly bookings cannot be rescheduled through CoachHub; cancel and rebook instead")
	}

	existing, err := uc.proposalRepo.GetPendingByBooking(ctx, b.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to check pending proposal: %w", err)
	}
	if existing != nil {
		return nil, translateBookingError(booking.ErrProposalPending)
	}

	var p *booking.Proposal
	if kind == booking.ProposalKindReschedule {
		if cmd.Start == nil || cmd.End == nil {
			return nil, errors.NewValidationError("start and end are required for a reschedule proposal")
		}
		p, err = booking.NewRescheduleProposal(b, cmd.UserID, *cmd.Start, *cmd.End, cmd.Reason, uc.ttl)
	} else {
		p, err = booking.NewCancelProposal(b, cmd.UserID, cmd.Reason, uc.ttl)
	}
	if err != nil {
		return nil, translateBookingError(err)
	}

	if err := uc.proposalRepo.Create(ctx, p); err != nil {
		// The partial unique index rejects a concurrent second proposal.
		if errors.IsDuplicateError(err) || errors.IsConflictError(err) {
			return nil, translateBookingError(booking.ErrProposalPending)
		}
		return nil, fmt.Errorf("failed to save proposal: %w", err)
	}

	if err := uc.publisher.Publish(booking.NewProposalEvent(booking.EventTypeProposalCreated, p, b)); err != nil {
		uc.logger.Warnw("failed to publish proposal event", "proposal_id", p.ID(), "error", err)
	}

	uc.logger.Infow("proposal created", "proposal_id", p.ID(), "booking_id", b.ID(), "expires_at", p.ExpiresAt())
	return dto.ToProposalDTO(p), nil
}
