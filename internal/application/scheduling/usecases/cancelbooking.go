package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

const maxReasonLength = 500

type CancelBookingCommand struct {
	BookingID string
	UserID    string
	IsAdmin   bool
	Reason    string
}

type CancelBookingUseCase struct {
	bookingRepo booking.Repository
	access      providerAccess
	reconciler  *Reconciler
	logger      logger.Interface
	now         func() time.Time
}

func NewCancelBookingUseCase(
	bookingRepo booking.Repository,
	integrationRepo integration.Repository,
	clients provider.Registry,
	tokens TokenSource,
	reconciler *Reconciler,
	logger logger.Interface,
) *CancelBookingUseCase {
	return &CancelBookingUseCase{
		bookingRepo: bookingRepo,
		access:      providerAccess{integrations: integrationRepo, clients: clients, tokens: tokens},
		reconciler:  reconciler,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

// Execute cancels the booking upstream, then the mirror and its session.
func (uc *CancelBookingUseCase) Execute(ctx context.Context, cmd CancelBookingCommand) (*dto.BookingDTO, error) {
	uc.logger.Infow("executing cancel booking use case", "booking_id", cmd.BookingID, "user_id", cmd.UserID)

	reason := strings.TrimSpace(cmd.Reason)
	if len([]rune(reason)) > maxReasonLength {
		return nil, errors.NewValidationError(fmt.Sprintf("reason exceeds maximum length of %d characters", maxReasonLength))
	}

	b, err := loadParticipantBooking(ctx, uc.bookingRepo, cmd.BookingID, cmd.UserID, cmd.IsAdmin)
	if err != nil {
		return nil, err
	}
	if !b.Status().IsActive() {
		return nil, errors.NewConflictError(booking.ErrBookingNotActive.Error(), string(b.Status()))
	}
	if b.HasStarted(uc.now()) {
		return nil, errors.NewConflictError(booking.ErrBookingStarted.Error())
	}

	client, token, err := uc.access.forCoach(ctx, b.CoachID(), b.Provider())
	if err != nil {
		return nil, err
	}
	if err := client.CancelBooking(ctx, token, b, reason); err != nil {
		// Already gone upstream: the local cancel below still applies.
		if provider.StatusCode(err) != 404 {
			uc.logger.Errorw("failed to cancel upstream booking", "booking_id", b.ID(), "error", err)
			return nil, upstreamError("cancel booking", b.Provider(), err)
		}
	}

	if err := b.Cancel(reason, cmd.UserID); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}
	if err := uc.bookingRepo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save cancelled booking: %w", err)
	}
	if err := uc.reconciler.FinishCancel(ctx, b); err != nil {
		return nil, err
	}

	uc.logger.Infow("booking cancelled", "booking_id", b.ID(), "cancelled_by", cmd.UserID)
	return dto.ToBookingDTO(b), nil
}
