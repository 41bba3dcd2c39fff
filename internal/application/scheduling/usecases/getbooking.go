package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type GetBookingQuery struct {
	BookingID string
	UserID    string
	IsAdmin   bool
}

type GetBookingUseCase struct {
	bookingRepo  booking.Repository
	proposalRepo booking.ProposalRepository
	logger       logger.Interface
}

func NewGetBookingUseCase(bookingRepo booking.Repository, proposalRepo booking.ProposalRepository, logger logger.Interface) *GetBookingUseCase {
	return &GetBookingUseCase{bookingRepo: bookingRepo, proposalRepo: proposalRepo, logger: logger}
}

func (uc *GetBookingUseCase) Execute(ctx context.Context, query GetBookingQuery) (*dto.BookingDTO, error) {
	b, err := loadParticipantBooking(ctx, uc.bookingRepo, query.BookingID, query.UserID, query.IsAdmin)
	if err != nil {
		return nil, err
	}
	pending, err := uc.proposalRepo.GetPendingByBooking(ctx, b.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load pending proposal: %w", err)
	}

	out := dto.ToBookingDTO(b)
	out.PendingProposal = dto.ToProposalDTO(pending)
	return out, nil
}
