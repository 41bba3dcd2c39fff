package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/shared/events"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type RespondProposalCommand struct {
	ProposalID string
	UserID     string
}

// RespondProposalResult carries the booking as it stands after the answer.
// For an accepted reschedule that is the replacement booking.
type RespondProposalResult struct {
	Proposal *dto.ProposalDTO `json:"proposal"`
	Booking  *dto.BookingDTO  `json:"booking"`
}

type proposalContext struct {
	bookingRepo  booking.Repository
	proposalRepo booking.ProposalRepository
}

func (pc proposalContext) load(ctx context.Context, proposalID, userID string) (*booking.Proposal, *booking.Booking, error) {
	p, err := pc.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load proposal: %w", err)
	}
	if p == nil {
		return nil, nil, errors.NewNotFoundError("proposal not found", proposalID)
	}
	b, err := loadParticipantBooking(ctx, pc.bookingRepo, p.BookingID(), userID, false)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, nil, errors.NewNotFoundError("proposal not found", proposalID)
		}
		return nil, nil, err
	}
	return p, b, nil
}

type AcceptProposalUseCase struct {
	proposalContext
	access     providerAccess
	reconciler *Reconciler
	publisher  events.EventPublisher
	logger     logger.Interface
}

func NewAcceptProposalUseCase(
	bookingRepo booking.Repository,
	proposalRepo booking.ProposalRepository,
	integrationRepo integration.Repository,
	clients provider.Registry,
	tokens TokenSource,
	reconciler *Reconciler,
	publisher events.EventPublisher,
	logger logger.Interface,
) *AcceptProposalUseCase {
	return &AcceptProposalUseCase{
		proposalContext: proposalContext{bookingRepo: bookingRepo, proposalRepo: proposalRepo},
		access:          providerAccess{integrations: integrationRepo, clients: clients, tokens: tokens},
		reconciler:      reconciler,
		publisher:       publisher,
		logger:          logger,
	}
}

// Execute applies the proposal upstream on behalf of the counterparty. A
// reschedule creates the replacement booking and retires the old one; a
// cancel proposal cancels the booking.
func (uc *AcceptProposalUseCase) Execute(ctx context.Context, cmd RespondProposalCommand) (*RespondProposalResult, error) {
	uc.logger.Infow("executing accept proposal use case", "proposal_id", cmd.ProposalID, "user_id", cmd.UserID)

	p, b, err := uc.load(ctx, cmd.ProposalID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := p.Accept(b, cmd.UserID); err != nil {
		return nil, translateBookingError(err)
	}

	client, token, err := uc.access.forCoach(ctx, b.CoachID(), b.Provider())
	if err != nil {
		return nil, err
	}

	var remote *provider.RemoteBooking
	switch p.Kind() {
	case booking.ProposalKindReschedule:
		remote, err = client.RescheduleBooking(ctx, token, b, *p.ProposedStart(), p.Reason())
		if err != nil {
			uc.logger.Errorw("failed to reschedule upstream booking", "booking_id", b.ID(), "error", err)
			return nil, upstreamError("reschedule booking", b.Provider(), err)
		}
	default:
		if err := client.CancelBooking(ctx, token, b, p.Reason()); err != nil && provider.StatusCode(err) != 404 {
			uc.logger.Errorw("failed to cancel upstream booking", "booking_id", b.ID(), "error", err)
			return nil, upstreamError("cancel booking", b.Provider(), err)
		}
	}

	if err := uc.proposalRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save proposal: %w", err)
	}

	current := b
	if remote != nil {
		if remote.RescheduledFromUID == "" {
			remote.RescheduledFromUID = b.UID()
		}
		if _, err := uc.reconciler.Apply(ctx, b.CoachID(), b.Provider(), *remote); err != nil {
			return nil, err
		}
		next, err := uc.bookingRepo.GetByUID(ctx, remote.UID)
		if err != nil {
			return nil, fmt.Errorf("failed to load rescheduled booking: %w", err)
		}
		if next != nil {
			current = next
		}
	} else {
		if err := b.Cancel(p.Reason(), p.ProposedBy()); err != nil {
			return nil, translateBookingError(err)
		}
		if err := uc.bookingRepo.Update(ctx, b); err != nil {
			return nil, fmt.Errorf("failed to save cancelled booking: %w", err)
		}
		if err := uc.reconciler.FinishCancel(ctx, b); err != nil {
			return nil, err
		}
	}

	if err := uc.publisher.Publish(booking.NewProposalEvent(booking.EventTypeProposalAccepted, p, current)); err != nil {
		uc.logger.Warnw("failed to publish proposal event", "proposal_id", p.ID(), "error", err)
	}

	uc.logger.Infow("proposal accepted", "proposal_id", p.ID(), "booking_id", current.ID(), "kind", p.Kind())
	return &RespondProposalResult{Proposal: dto.ToProposalDTO(p), Booking: dto.ToBookingDTO(current)}, nil
}

type DeclineProposalUseCase struct {
	proposalContext
	publisher events.EventPublisher
	logger    logger.Interface
}

func NewDeclineProposalUseCase(
	bookingRepo booking.Repository,
	proposalRepo booking.ProposalRepository,
	publisher events.EventPublisher,
	logger logger.Interface,
) *DeclineProposalUseCase {
	return &DeclineProposalUseCase{
		proposalContext: proposalContext{bookingRepo: bookingRepo, proposalRepo: proposalRepo},
		publisher:       publisher,
		logger:          logger,
	}
}

func (uc *DeclineProposalUseCase) Execute(ctx context.Context, cmd RespondProposalCommand) (*RespondProposalResult, error) {
	p, b, err := uc.load(ctx, cmd.ProposalID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := p.Decline(b, cmd.UserID); err != nil {
		return nil, translateBookingError(err)
	}
	if err := uc.proposalRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save proposal: %w", err)
	}
	if err := uc.publisher.Publish(booking.NewProposalEvent(booking.EventTypeProposalDeclined, p, b)); err != nil {
		uc.logger.Warnw("failed to publish proposal event", "proposal_id", p.ID(), "error", err)
	}

	uc.logger.Infow("proposal declined", "proposal_id", p.ID(), "user_id", cmd.UserID)
	return &RespondProposalResult{Proposal: dto.ToProposalDTO(p), Booking: dto.ToBookingDTO(b)}, nil
}

type WithdrawProposalUseCase struct {
	proposalContext
	logger logger.Interface
}

func NewWithdrawProposalUseCase(
	bookingRepo booking.Repository,
	proposalRepo booking.ProposalRepository,
	logger logger.Interface,
) *WithdrawProposalUseCase {
	return &WithdrawProposalUseCase{
		proposalContext: proposalContext{bookingRepo: bookingRepo, proposalRepo: proposalRepo},
		logger:          logger,
	}
}

func (uc *WithdrawProposalUseCase) Execute(ctx context.Context, cmd RespondProposalCommand) (*RespondProposalResult, error) {
	p, b, err := uc.load(ctx, cmd.ProposalID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := p.Withdraw(cmd.UserID); err != nil {
		return nil, translateBookingError(err)
	}
	if err := uc.proposalRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save proposal: %w", err)
	}

	uc.logger.Infow("proposal withdrawn", "proposal_id", p.ID(), "user_id", cmd.UserID)
	return &RespondProposalResult{Proposal: dto.ToProposalDTO(p), Booking: dto.ToBookingDTO(b)}, nil
}
