package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/application/scheduling/testutil"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/session"
	"github.com/coachhub/coachhub/internal/domain/user"
	uservo "github.com/coachhub/coachhub/internal/domain/user/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) AccessToken(_ context.Context, _ *integration.Integration) (string, error) {
	return s.token, s.err
}

type fixture struct {
	bookings     *testutil.MockBookingRepository
	proposals    *testutil.MockProposalRepository
	sessions     *testutil.MockSessionRepository
	users        *testutil.MockUserRepository
	integrations *testutil.MockIntegrationRepository
	publisher    *testutil.MockEventPublisher
	calcom       *testutil.MockCalcomClient
	calendly     *testutil.MockProviderClient
	reconciler   *Reconciler
	coach        *user.User
	mentee       *user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	coach := newUser(t, "clerk_coach", "coach@example.com", authorization.RoleCoach)
	mentee := newUser(t, "clerk_mentee", "mentee@example.com", authorization.RoleMentee)

	f := &fixture{
		bookings:     testutil.NewMockBookingRepository(),
		proposals:    testutil.NewMockProposalRepository(),
		sessions:     testutil.NewMockSessionRepository(),
		users:        testutil.NewMockUserRepository(coach, mentee),
		integrations: testutil.NewMockIntegrationRepository(),
		publisher:    testutil.NewMockEventPublisher(),
		calcom:       testutil.NewMockCalcomClient(),
		calendly:     testutil.NewMockCalendlyClient(),
		coach:        coach,
		mentee:       mentee,
	}
	f.reconciler = NewReconciler(f.bookings, f.proposals, f.sessions, f.users, f.publisher, logger.NewNopLogger())
	return f
}

func (f *fixture) registry() provider.Registry {
	return provider.NewRegistry(f.calcom, f.calendly)
}

func newUser(t *testing.T, clerkID, email string, role authorization.UserRole) *user.User {
	t.Helper()
	addr, err := uservo.NewEmail(email)
	require.NoError(t, err)
	u, err := user.NewUser(clerkID, addr, "Test", "User")
	require.NoError(t, err)
	if role != authorization.RoleMentee {
		require.NoError(t, u.ChangeRole(role))
	}
	return u
}

func newIntegration(t *testing.T, userID string, p integration.Provider) *integration.Integration {
	t.Helper()
	i, err := integration.NewIntegration(userID, p, "ext-"+userID, "", integration.Tokens{
		AccessToken:     "access",
		RefreshToken:    "refresh",
		AccessExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	return i
}

func remoteBooking(uid string, start time.Time, status booking.Status) provider.RemoteBooking {
	return provider.RemoteBooking{
		UID:               uid,
		ProviderBookingID: "pb-" + uid,
		EventTypeID:       "42",
		Title:             "Coaching call",
		AttendeeEmail:     "mentee@example.com",
		AttendeeName:      "Mentee",
		StartTime:         start,
		EndTime:           start.Add(time.Hour),
		Status:            status,
		MeetingURL:        "https://meet.example.com/" + uid,
	}
}

// seedBooking mirrors an accepted booking with its session.
func (f *fixture) seedBooking(t *testing.T, uid string, start time.Time, p integration.Provider) (*booking.Booking, *session.Session) {
	t.Helper()
	b, err := booking.NewBooking(booking.NewBookingParams{
		UID:               uid,
		Provider:          p,
		ProviderBookingID: "pb-" + uid,
		CoachID:           f.coach.ID(),
		MenteeID:          f.mentee.ID(),
		AttendeeEmail:     "mentee@example.com",
		Title:             "Coaching call",
		StartTime:         start,
		EndTime:           start.Add(time.Hour),
		Status:            booking.StatusAccepted,
	})
	require.NoError(t, err)
	require.NoError(t, f.bookings.Create(context.Background(), b))

	s, err := session.NewSession(b.ID(), b.CoachID(), b.MenteeID(), b.StartTime(), b.EndTime())
	require.NoError(t, err)
	require.NoError(t, f.sessions.Create(context.Background(), s))
	return b, s
}
