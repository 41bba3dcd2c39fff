package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/application/scheduling/testutil"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/coach"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/session"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

func (f *fixture) connect(t *testing.T, p integration.Provider) *integration.Integration {
	t.Helper()
	i := newIntegration(t, f.coach.ID(), p)
	require.NoError(t, f.integrations.Create(context.Background(), i))
	return i
}

func newCreateBookingUseCase(t *testing.T, f *fixture, accepting bool) *CreateBookingUseCase {
	t.Helper()
	eventType := int64(42)
	profile, err := coach.NewProfile(f.coach.ID(), coach.ProfileInput{
		Headline:          "Career coach",
		HourlyRateCents:   10000,
		Currency:          "USD",
		AcceptingClients:  accepting,
		Provider:          integration.ProviderCalcom,
		CalcomEventTypeID: &eventType,
	})
	require.NoError(t, err)
	return NewCreateBookingUseCase(
		f.users, testutil.NewMockCoachProfileRepository(profile), f.bookings,
		f.integrations, f.registry(), staticTokens{token: "token"}, f.reconciler, logger.NewNopLogger(),
	)
}

func TestCreateBooking_CreatesUpstreamThenMirrors(t *testing.T) {
	f := newFixture(t)
	f.connect(t, integration.ProviderCalcom)
	start := time.Now().Add(72 * time.Hour).Truncate(time.Minute)

	f.calcom.On("CreateBooking", mock.Anything, "token", mock.MatchedBy(func(req provider.CreateBookingRequest) bool {
		return req.EventTypeID == "42" && req.AttendeeEmail == "mentee@example.com" && req.Start.Equal(start)
	})).Return(&provider.RemoteBooking{
		UID:           "cal-uid",
		EventTypeID:   "42",
		Title:         "Coaching call",
		AttendeeEmail: "mentee@example.com",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Status:        booking.StatusAccepted,
	}, nil)

	out, err := newCreateBookingUseCase(t, f, true).Execute(context.Background(), CreateBookingCommand{
		MenteeID: f.mentee.ID(),
		CoachID:  f.coach.ID(),
		Start:    start,
		TimeZone: "Europe/Berlin",
	})
	require.NoError(t, err)
	assert.Equal(t, "cal-uid", out.UID)
	assert.Equal(t, f.mentee.ID(), out.MenteeID)
	assert.Equal(t, "accepted", out.Status)

	s, err := f.sessions.GetByBookingID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.NotNil(t, s)
	f.calcom.AssertExpectations(t)
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture(t)
	f.connect(t, integration.ProviderCalcom)
	uc := newCreateBookingUseCase(t, f, true)

	_, err := uc.Execute(context.Background(), CreateBookingCommand{
		MenteeID: f.mentee.ID(), CoachID: f.coach.ID(), Start: time.Now().Add(-time.Hour),
	})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), CreateBookingCommand{
		MenteeID: f.coach.ID(), CoachID: f.coach.ID(), Start: time.Now().Add(time.Hour),
	})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestCreateBooking_CoachNotAccepting(t *testing.T) {
	f := newFixture(t)
	f.connect(t, integration.ProviderCalcom)
	_, err := newCreateBookingUseCase(t, f, false).Execute(context.Background(), CreateBookingCommand{
		MenteeID: f.mentee.ID(), CoachID: f.coach.ID(), Start: time.Now().Add(time.Hour),
	})
	assert.True(t, apperrors.IsConflictError(err))
}

func TestCreateBooking_SlotTaken(t *testing.T) {
	f := newFixture(t)
	f.connect(t, integration.ProviderCalcom)
	f.calcom.On("CreateBooking", mock.Anything, "token", mock.Anything).
		Return(nil, &provider.Error{Provider: integration.ProviderCalcom, StatusCode: 409, Message: "slot taken"})

	_, err := newCreateBookingUseCase(t, f, true).Execute(context.Background(), CreateBookingCommand{
		MenteeID: f.mentee.ID(), CoachID: f.coach.ID(), Start: time.Now().Add(time.Hour),
	})
	assert.True(t, apperrors.IsConflictError(err))
	assert.Empty(t, f.bookings.All())
}

func TestListBookings_ScopedToParticipant(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(24 * time.Hour)
	f.seedBooking(t, "a", start, integration.ProviderCalcom)
	f.seedBooking(t, "b", start.Add(time.Hour), integration.ProviderCalcom)

	uc := NewListBookingsUseCase(f.bookings, logger.NewNopLogger())

	res, err := uc.Execute(context.Background(), ListBookingsQuery{UserID: f.mentee.ID()})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)

	res, err = uc.Execute(context.Background(), ListBookingsQuery{UserID: "stranger"})
	require.NoError(t, err)
	assert.Zero(t, res.Total)

	res, err = uc.Execute(context.Background(), ListBookingsQuery{UserID: "admin", IsAdmin: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)

	_, err = uc.Execute(context.Background(), ListBookingsQuery{UserID: f.mentee.ID(), Statuses: []string{"bogus"}})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestGetBooking_HidesFromOutsiders(t *testing.T) {
	f := newFixture(t)
	b, _ := f.seedBooking(t, "a", time.Now().Add(24*time.Hour), integration.ProviderCalcom)
	uc := NewGetBookingUseCase(f.bookings, f.proposals, logger.NewNopLogger())

	out, err := uc.Execute(context.Background(), GetBookingQuery{BookingID: b.ID(), UserID: f.coach.ID()})
	require.NoError(t, err)
	assert.Equal(t, b.ID(), out.ID)

	_, err = uc.Execute(context.Background(), GetBookingQuery{BookingID: b.ID(), UserID: "stranger"})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func newCancelBookingUseCase(f *fixture) *CancelBookingUseCase {
	return NewCancelBookingUseCase(f.bookings, f.integrations, f.registry(), staticTokens{token: "token"}, f.reconciler, logger.NewNopLogger())
}

func TestCancelBooking_CancelsUpstreamAndLocally(t *testing.T) {
	f := newFixture(t)
	f.connect(t, integration.ProviderCalcom)
	b, s := f.seedBooking(t, "a", time.Now().Add(24*time.Hour), integration.ProviderCalcom)
	f.calcom.On("CancelBooking", mock.Anything, "token", b, "sick").Return(nil)

	out, err := newCancelBookingUseCase(f).Execute(context.Background(), CancelBookingCommand{
		BookingID: b.ID(), UserID: f.mentee.ID(), Reason: " sick ",
	})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)
	assert.Equal(t, f.mentee.ID(), b.CancelledBy())
	assert.Equal(t, session.StatusCancelled, s.Status())
	assert.Contains(t, f.publisher.EventTypes(), booking.EventTypeBookingCancelled)
}

func TestCancelBooking_UpstreamFailureKeepsMirror(t *testing.T) {
	f := newFixture(t)
	f.connect(t, integration.ProviderCalcom)
	b, _ := f.seedBooking(t, "a", time.Now().Add(24*time.Hour), integration.ProviderCalcom)
	f.calcom.On("CancelBooking", mock.Anything, "token", b, "").
		Return(&provider.Error{Provider: integration.ProviderCalcom, StatusCode: 500})

	_, err := newCancelBookingUseCase(f).Execute(context.Background(), CancelBookingCommand{
		BookingID: b.ID(), UserID: f.coach.ID(),
	})
	assert.True(t, apperrors.IsUpstreamError(err))
	assert.Equal(t, booking.StatusAccepted, b.Status())
}

func TestCancelBooking_Rules(t *testing.T) {
	f := newFixture(t)
	f.connect(t, integration.ProviderCalcom)
	started, _ := f.seedBooking(t, "started", time.Now().Add(-10*time.Minute), integration.ProviderCalcom)
	uc := newCancelBookingUseCase(f)

	_, err := uc.Execute(context.Background(), CancelBookingCommand{BookingID: started.ID(), UserID: f.mentee.ID()})
	assert.True(t, apperrors.IsConflictError(err))

	future, _ := f.seedBooking(t, "future", time.Now().Add(time.Hour), integration.ProviderCalcom)
	_, err = uc.Execute(context.Background(), CancelBookingCommand{BookingID: future.ID(), UserID: "stranger"})
	assert.True(t, apperrors.IsNotFoundError(err))

	f.calcom.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBooking_NeedsConnectedCalendar(t *testing.T) {
	f := newFixture(t)
	b, _ := f.seedBooking(t, "a", time.Now().Add(24*time.Hour), integration.ProviderCalcom)

	_, err := newCancelBookingUseCase(f).Execute(context.Background(), CancelBookingCommand{BookingID: b.ID(), UserID: f.coach.ID()})
	assert.True(t, apperrors.IsConflictError(err))
}
