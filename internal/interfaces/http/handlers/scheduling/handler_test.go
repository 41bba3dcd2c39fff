package scheduling

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/application/scheduling/usecases"
	"github.com/coachhub/coachhub/internal/interfaces/http/handlers/testutil"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/id"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

func init() {
	utils.RegisterBindingValidators()
}

// =====================================================================
// Mock use cases
// =====================================================================

type mockCreateBookingUC struct {
	got    usecases.CreateBookingCommand
	result *dto.BookingDTO
	err    error
}

func (m *mockCreateBookingUC) Execute(ctx context.Context, cmd usecases.CreateBookingCommand) (*dto.BookingDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockCancelBookingUC struct {
	got    usecases.CancelBookingCommand
	result *dto.BookingDTO
	err    error
}

func (m *mockCancelBookingUC) Execute(ctx context.Context, cmd usecases.CancelBookingCommand) (*dto.BookingDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockListBookingsUC struct {
	got    usecases.ListBookingsQuery
	result *usecases.ListBookingsResult
	err    error
}

func (m *mockListBookingsUC) Execute(ctx context.Context, query usecases.ListBookingsQuery) (*usecases.ListBookingsResult, error) {
	m.got = query
	return m.result, m.err
}

type mockRespondUC struct {
	got    usecases.RespondProposalCommand
	result *usecases.RespondProposalResult
	err    error
}

func (m *mockRespondUC) Execute(ctx context.Context, cmd usecases.RespondProposalCommand) (*usecases.RespondProposalResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockCompleteCalendlyUC struct {
	got    usecases.CompleteCalendlyConnectCommand
	result *dto.IntegrationDTO
	err    error
}

func (m *mockCompleteCalendlyUC) Execute(ctx context.Context, cmd usecases.CompleteCalendlyConnectCommand) (*dto.IntegrationDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockScheduleManager struct {
	created usecases.CreateScheduleCommand
	deleted string
	err     error
}

func (m *mockScheduleManager) List(ctx context.Context, coachID string) ([]*dto.ScheduleDTO, error) {
	return []*dto.ScheduleDTO{}, m.err
}

func (m *mockScheduleManager) Create(ctx context.Context, cmd usecases.CreateScheduleCommand) (*dto.ScheduleDTO, error) {
	m.created = cmd
	return &dto.ScheduleDTO{Name: cmd.Name}, m.err
}

func (m *mockScheduleManager) SetDefault(ctx context.Context, coachID, scheduleID string) (*dto.ScheduleDTO, error) {
	return &dto.ScheduleDTO{}, m.err
}

func (m *mockScheduleManager) Delete(ctx context.Context, coachID, scheduleID string) error {
	m.deleted = scheduleID
	return m.err
}

// =====================================================================
// Bookings
// =====================================================================

func TestBookingHandler_Create(t *testing.T) {
	coachID := id.New()
	menteeID := id.New()
	start := time.Date(2026, 11, 2, 15, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		uc := &mockCreateBookingUC{result: &dto.BookingDTO{ID: id.New(), CoachID: coachID, Status: "confirmed"}}
		h := NewBookingHandler(uc, nil, nil, nil, nil, logger.NewNopLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/bookings", CreateBookingRequest{
			CoachID:  coachID,
			Start:    start,
			TimeZone: "Europe/Berlin",
		})
		testutil.SetAuthContext(c, menteeID, authorization.RoleMentee)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, menteeID, uc.got.MenteeID)
		assert.Equal(t, coachID, uc.got.CoachID)
		assert.True(t, start.Equal(uc.got.Start))
	})

	t.Run("invalid coach id", func(t *testing.T) {
		h := NewBookingHandler(nil, nil, nil, nil, nil, logger.NewNopLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/bookings", map[string]any{
			"coach_id": "abc",
			"start":    start,
		})
		testutil.SetAuthContext(c, menteeID, authorization.RoleMentee)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		h := NewBookingHandler(nil, nil, nil, nil, nil, logger.NewNopLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/bookings", CreateBookingRequest{
			CoachID:  coachID,
			Start:    start,
			TimeZone: "Mars/Olympus",
		})
		testutil.SetAuthContext(c, menteeID, authorization.RoleMentee)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("slot conflict", func(t *testing.T) {
		uc := &mockCreateBookingUC{err: errors.NewConflictError("slot is no longer available")}
		h := NewBookingHandler(uc, nil, nil, nil, nil, logger.NewNopLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/bookings", CreateBookingRequest{CoachID: coachID, Start: start})
		testutil.SetAuthContext(c, menteeID, authorization.RoleMentee)

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h := NewBookingHandler(&mockCreateBookingUC{}, nil, nil, nil, nil, logger.NewNopLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/bookings", CreateBookingRequest{CoachID: coachID, Start: start})

		h.Create(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBookingHandler_List(t *testing.T) {
	uc := &mockListBookingsUC{result: &usecases.ListBookingsResult{
		Bookings: []*dto.BookingDTO{{ID: id.New()}},
		Total:    1,
		Page:     1,
		PageSize: 20,
	}}
	h := NewBookingHandler(nil, nil, nil, uc, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/bookings", nil)
	testutil.SetQueryParams(c, map[string]string{"status": "confirmed, completed", "upcoming": "true"})
	testutil.SetAuthContext(c, "admin-1", authorization.RoleAdmin)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"confirmed", "completed"}, uc.got.Statuses)
	assert.True(t, uc.got.Upcoming)
	assert.True(t, uc.got.IsAdmin)

	var list testutil.ListData
	require.NoError(t, testutil.DecodeData(w, &list))
	assert.EqualValues(t, 1, list.Total)
	assert.Equal(t, 1, list.TotalPages)
}

func TestBookingHandler_Cancel(t *testing.T) {
	bookingID := id.New()

	t.Run("with reason", func(t *testing.T) {
		uc := &mockCancelBookingUC{result: &dto.BookingDTO{ID: bookingID, Status: "cancelled"}}
		h := NewBookingHandler(nil, uc, nil, nil, nil, logger.NewNopLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/bookings/"+bookingID+"/cancel", CancelBookingRequest{Reason: "sick"})
		testutil.SetURLParam(c, "id", bookingID)
		testutil.SetAuthContext(c, "mentee-1", authorization.RoleMentee)

		h.Cancel(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "sick", uc.got.Reason)
		assert.False(t, uc.got.IsAdmin)
	})

	t.Run("empty body", func(t *testing.T) {
		uc := &mockCancelBookingUC{result: &dto.BookingDTO{ID: bookingID}}
		h := NewBookingHandler(nil, uc, nil, nil, nil, logger.NewNopLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/bookings/"+bookingID+"/cancel", nil)
		testutil.SetURLParam(c, "id", bookingID)
		testutil.SetAuthContext(c, "mentee-1", authorization.RoleMentee)

		h.Cancel(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, bookingID, uc.got.BookingID)
	})

	t.Run("bad id", func(t *testing.T) {
		h := NewBookingHandler(nil, &mockCancelBookingUC{}, nil, nil, nil, logger.NewNopLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/bookings/x/cancel", nil)
		testutil.SetURLParam(c, "id", "x")
		testutil.SetAuthContext(c, "mentee-1", authorization.RoleMentee)

		h.Cancel(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookingHandler_CreateProposal_RejectsUnknownKind(t *testing.T) {
	bookingID := id.New()
	h := NewBookingHandler(nil, nil, nil, nil, nil, logger.NewNopLogger())
	c, w := testutil.NewTestContext(http.MethodPost, "/bookings/"+bookingID+"/proposals", map[string]string{"kind": "swap"})
	testutil.SetURLParam(c, "id", bookingID)
	testutil.SetAuthContext(c, "coach-1", authorization.RoleCoach)

	h.CreateProposal(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// Proposals
// =====================================================================

func TestProposalHandler_Accept(t *testing.T) {
	proposalID := id.New()
	accept := &mockRespondUC{result: &usecases.RespondProposalResult{
		Proposal: &dto.ProposalDTO{ID: proposalID, Status: "accepted"},
		Booking:  &dto.BookingDTO{ID: id.New()},
	}}
	h := NewProposalHandler(accept, nil, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/proposals/"+proposalID+"/accept", nil)
	testutil.SetURLParam(c, "id", proposalID)
	testutil.SetAuthContext(c, "mentee-1", authorization.RoleMentee)

	h.Accept(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, proposalID, accept.got.ProposalID)
	assert.Equal(t, "mentee-1", accept.got.UserID)

	var result usecases.RespondProposalResult
	require.NoError(t, testutil.DecodeData(w, &result))
	assert.Equal(t, "accepted", result.Proposal.Status)
}

func TestProposalHandler_DeclineByProposerIsForbidden(t *testing.T) {
	proposalID := id.New()
	decline := &mockRespondUC{err: errors.NewForbiddenError("the proposer cannot answer their own proposal")}
	h := NewProposalHandler(nil, decline, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/proposals/"+proposalID+"/decline", nil)
	testutil.SetURLParam(c, "id", proposalID)
	testutil.SetAuthContext(c, "coach-1", authorization.RoleCoach)

	h.Decline(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// =====================================================================
// Integrations
// =====================================================================

func TestIntegrationHandler_CalendlyCallback(t *testing.T) {
	t.Run("redirects to frontend on success", func(t *testing.T) {
		uc := &mockCompleteCalendlyUC{result: &dto.IntegrationDTO{Provider: "calendly"}}
		h := NewIntegrationHandler(nil, nil, uc, nil, nil, "https://app.coachhub.io/", logger.NewNopLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/integrations/calendly/callback", nil)
		testutil.SetQueryParams(c, map[string]string{"state": "s1", "code": "c1"})

		h.CalendlyCallback(c)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://app.coachhub.io/settings/integrations?calendly=connected", w.Header().Get("Location"))
		assert.Equal(t, "s1", uc.got.State)
		assert.Equal(t, "c1", uc.got.Code)
	})

	t.Run("redirects with error type", func(t *testing.T) {
		uc := &mockCompleteCalendlyUC{err: errors.NewValidationError("invalid or expired state")}
		h := NewIntegrationHandler(nil, nil, uc, nil, nil, "https://app.coachhub.io", logger.NewNopLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/integrations/calendly/callback", nil)
		testutil.SetQueryParams(c, map[string]string{"state": "stale"})

		h.CalendlyCallback(c)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "calendly=error")
		assert.Contains(t, w.Header().Get("Location"), "reason=validation_error")
	})

	t.Run("json without frontend", func(t *testing.T) {
		uc := &mockCompleteCalendlyUC{err: errors.NewValidationError("invalid or expired state")}
		h := NewIntegrationHandler(nil, nil, uc, nil, nil, "", logger.NewNopLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/integrations/calendly/callback", nil)

		h.CalendlyCallback(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =====================================================================
// Schedules
// =====================================================================

func TestScheduleHandler_Create(t *testing.T) {
	m := &mockScheduleManager{}
	h := NewScheduleHandler(m, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/schedules", CreateScheduleRequest{
		Name:     "Weekdays",
		TimeZone: "America/New_York",
		Availability: []AvailabilityRequest{
			{Days: []string{"Monday", "Wednesday"}, StartTime: "09:00", EndTime: "17:00"},
		},
	})
	testutil.SetAuthContext(c, "coach-1", authorization.RoleCoach)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "coach-1", m.created.CoachID)
	require.Len(t, m.created.Availability, 1)
	assert.Equal(t, []string{"Monday", "Wednesday"}, m.created.Availability[0].Days)
}

func TestScheduleHandler_CreateRejectsBadDay(t *testing.T) {
	h := NewScheduleHandler(&mockScheduleManager{}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/schedules", CreateScheduleRequest{
		Name:     "Weekdays",
		TimeZone: "UTC",
		Availability: []AvailabilityRequest{
			{Days: []string{"Funday"}, StartTime: "09:00", EndTime: "17:00"},
		},
	})
	testutil.SetAuthContext(c, "coach-1", authorization.RoleCoach)

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandler_DeleteDefaultConflict(t *testing.T) {
	scheduleID := id.New()
	m := &mockScheduleManager{err: errors.NewConflictError("cannot delete the default schedule")}
	h := NewScheduleHandler(m, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodDelete, "/schedules/"+scheduleID, nil)
	testutil.SetURLParam(c, "id", scheduleID)
	testutil.SetAuthContext(c, "coach-1", authorization.RoleCoach)

	h.Delete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, scheduleID, m.deleted)
}
