package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/session"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

func (f *fixture) propose(t *testing.T, b *booking.Booking, by string, start time.Time) *dto.ProposalDTO {
	t.Helper()
	end := start.Add(time.Hour)
	out, err := NewCreateProposalUseCase(f.bookings, f.proposals, f.publisher, 24*time.Hour, logger.NewNopLogger()).
		Execute(context.Background(), CreateProposalCommand{
			BookingID: b.ID(), UserID: by, Kind: "reschedule", Start: &start, End: &end, Reason: "conflict",
		})
	require.NoError(t, err)
	return out
}

func TestCreateProposal_OnePendingPerBooking(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(72 * time.Hour).Truncate(time.Minute)
	b, _ := f.seedBooking(t, "a", start, integration.ProviderCalcom)

	p := f.propose(t, b, f.mentee.ID(), start.Add(24*time.Hour))
	assert.Equal(t, "pending", p.Status)
	assert.True(t, p.ExpiresAt.Before(start) || p.ExpiresAt.Equal(start))

	uc := NewCreateProposalUseCase(f.bookings, f.proposals, f.publisher, 24*time.Hour, logger.NewNopLogger())
	_, err := uc.Execute(context.Background(), CreateProposalCommand{
		BookingID: b.ID(), UserID: f.coach.ID(), Kind: "cancel",
	})
	assert.True(t, apperrors.IsConflictError(err))
	assert.Equal(t, []string{booking.EventTypeProposalCreated}, f.publisher.EventTypes())
}

func TestCreateProposal_ExpiresAtBookingStart(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(2 * time.Hour).Truncate(time.Minute)
	b, _ := f.seedBooking(t, "a", start, integration.ProviderCalcom)

	p := f.propose(t, b, f.coach.ID(), start.Add(24*time.Hour))
	assert.True(t, p.ExpiresAt.Equal(start))
}

func TestCreateProposal_Rules(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(72 * time.Hour)
	b, _ := f.seedBooking(t, "a", start, integration.ProviderCalcom)
	cb, _ := f.seedBooking(t, "c", start, integration.ProviderCalendly)
	uc := NewCreateProposalUseCase(f.bookings, f.proposals, f.publisher, 24*time.Hour, logger.NewNopLogger())
	ctx := context.Background()

	_, err := uc.Execute(ctx, CreateProposalCommand{BookingID: b.ID(), UserID: "stranger", Kind: "cancel"})
	assert.True(t, apperrors.IsNotFoundError(err))

	_, err = uc.Execute(ctx, CreateProposalCommand{BookingID: b.ID(), UserID: f.mentee.ID(), Kind: "swap"})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(ctx, CreateProposalCommand{BookingID: b.ID(), UserID: f.mentee.ID(), Kind: "reschedule"})
	assert.True(t, apperrors.IsValidationError(err))

	s, e := start.Add(time.Hour), start.Add(2*time.Hour)
	_, err = uc.Execute(ctx, CreateProposalCommand{BookingID: cb.ID(), UserID: f.mentee.ID(), Kind: "reschedule", Start: &s, End: &e})
	assert.Equal(t, 400, apperrors.GetAppError(err).Code)
}

func newAcceptProposalUseCase(f *fixture) *AcceptProposalUseCase {
	return NewAcceptProposalUseCase(f.bookings, f.proposals, f.integrations, f.registry(),
		staticTokens{token: "token"}, f.reconciler, f.publisher, logger.NewNopLogger())
}

func TestAcceptProposal_OnlyCounterparty(t *testing.T) {
	f := newFixture(t)
	f.connect(t, integration.ProviderCalcom)
	start := time.Now().Add(72 * time.Hour).Truncate(time.Minute)
	b, _ := f.seedBooking(t, "a", start, integration.ProviderCalcom)
	p := f.propose(t, b, f.mentee.ID(), start.Add(24*time.Hour))

	_, err := newAcceptProposalUseCase(f).Execute(context.Background(), RespondProposalCommand{ProposalID: p.ID, UserID: f.mentee.ID()})
	assert.Equal(t, 403, apperrors.GetAppError(err).Code)
	f.calcom.AssertNotCalled(t, "RescheduleBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptProposal_ReschedulesUpstream(t *testing.T) {
	f := newFixture(t)
	f.connect(t, integration.ProviderCalcom)
	start := time.Now().Add(72 * time.Hour).Truncate(time.Minute)
	b, s := f.seedBooking(t, "old-uid", start, integration.ProviderCalcom)
	newStart := start.Add(24 * time.Hour)
	p := f.propose(t, b, f.mentee.ID(), newStart)

	replacement := remoteBooking("new-uid", newStart, booking.StatusAccepted)
	sameInstant := mock.MatchedBy(func(t time.Time) bool { return t.Equal(newStart) })
	f.calcom.On("RescheduleBooking", mock.Anything, "token", b, sameInstant, "conflict").Return(&replacement, nil)

	res, err := newAcceptProposalUseCase(f).Execute(context.Background(), RespondProposalCommand{ProposalID: p.ID, UserID: f.coach.ID()})
	require.NoError(t, err)
	assert.Equal(t, "accepted", res.Proposal.Status)
	assert.Equal(t, "new-uid", res.Booking.UID)
	assert.Equal(t, "old-uid", res.Booking.RescheduledFromUID)

	assert.Equal(t, booking.StatusRescheduled, b.Status())
	assert.Equal(t, res.Booking.ID, s.BookingID())
	assert.True(t, s.ScheduledStart().Equal(newStart))
	assert.Equal(t, session.StatusScheduled, s.Status())
	assert.Contains(t, f.publisher.EventTypes(), booking.EventTypeProposalAccepted)
	assert.Contains(t, f.publisher.EventTypes(), booking.EventTypeBookingRescheduled)
}

func TestAcceptProposal_CancelKind(t *testing.T) {
	f := newFixture(t)
	f.connect(t, integration.ProviderCalcom)
	start := time.Now().Add(72 * time.Hour)
	b, s := f.seedBooking(t, "a", start, integration.ProviderCalcom)

	p, err := NewCreateProposalUseCase(f.bookings, f.proposals, f.publisher, time.Hour, logger.NewNopLogger()).
		Execute(context.Background(), CreateProposalCommand{BookingID: b.ID(), UserID: f.coach.ID(), Kind: "cancel", Reason: "travel"})
	require.NoError(t, err)
	f.calcom.On("CancelBooking", mock.Anything, "token", b, "travel").Return(nil)

	_, err = newAcceptProposalUseCase(f).Execute(context.Background(), RespondProposalCommand{ProposalID: p.ID, UserID: f.mentee.ID()})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, b.Status())
	assert.Equal(t, f.coach.ID(), b.CancelledBy())
	assert.Equal(t, session.StatusCancelled, s.Status())
}

func TestAcceptProposal_UpstreamFailureLeavesPending(t *testing.T) {
	f := newFixture(t)
	f.connect(t, integration.ProviderCalcom)
	start := time.Now().Add(72 * time.Hour).Truncate(time.Minute)
	b, _ := f.seedBooking(t, "a", start, integration.ProviderCalcom)
	p := f.propose(t, b, f.mentee.ID(), start.Add(24*time.Hour))
	f.calcom.On("RescheduleBooking", mock.Anything, "token", b, mock.Anything, mock.Anything).
		Return(nil, &provider.Error{Provider: integration.ProviderCalcom, StatusCode: 502})

	_, err := newAcceptProposalUseCase(f).Execute(context.Background(), RespondProposalCommand{ProposalID: p.ID, UserID: f.coach.ID()})
	assert.True(t, apperrors.IsUpstreamError(err))

	stored, err := f.proposals.GetPendingByBooking(context.Background(), b.ID())
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestDeclineAndWithdrawProposal(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(72 * time.Hour).Truncate(time.Minute)
	b, _ := f.seedBooking(t, "a", start, integration.ProviderCalcom)
	ctx := context.Background()

	p := f.propose(t, b, f.mentee.ID(), start.Add(24*time.Hour))
	decline := NewDeclineProposalUseCase(f.bookings, f.proposals, f.publisher, logger.NewNopLogger())
	_, err := decline.Execute(ctx, RespondProposalCommand{ProposalID: p.ID, UserID: f.mentee.ID()})
	assert.Equal(t, 403, apperrors.GetAppError(err).Code)
	res, err := decline.Execute(ctx, RespondProposalCommand{ProposalID: p.ID, UserID: f.coach.ID()})
	require.NoError(t, err)
	assert.Equal(t, "declined", res.Proposal.Status)

	p2 := f.propose(t, b, f.coach.ID(), start.Add(48*time.Hour))
	withdraw := NewWithdrawProposalUseCase(f.bookings, f.proposals, logger.NewNopLogger())
	_, err = withdraw.Execute(ctx, RespondProposalCommand{ProposalID: p2.ID, UserID: f.mentee.ID()})
	assert.Equal(t, 403, apperrors.GetAppError(err).Code)
	res, err = withdraw.Execute(ctx, RespondProposalCommand{ProposalID: p2.ID, UserID: f.coach.ID()})
	require.NoError(t, err)
	assert.Equal(t, "withdrawn", res.Proposal.Status)

	_, err = withdraw.Execute(ctx, RespondProposalCommand{ProposalID: p2.ID, UserID: f.coach.ID()})
	assert.True(t, apperrors.IsConflictError(err))
}

func TestExpireProposals(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(72 * time.Hour).Truncate(time.Minute)
	b, _ := f.seedBooking(t, "a", start, integration.ProviderCalcom)
	f.propose(t, b, f.mentee.ID(), start.Add(24*time.Hour))

	uc := NewExpireProposalsUseCase(f.proposals, logger.NewNopLogger())
	n, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	uc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	n, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	pending, _ := f.proposals.GetPendingByBooking(context.Background(), b.ID())
	assert.Nil(t, pending)
}
