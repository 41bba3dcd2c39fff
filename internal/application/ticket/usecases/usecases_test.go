package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhub/coachhub/internal/application/scheduling/testutil"
	"github.com/coachhub/coachhub/internal/application/ticket/dto"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/ticket"
	vo "github.com/coachhub/coachhub/internal/domain/ticket/valueobjects"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	uservo "github.com/coachhub/coachhub/internal/domain/user/valueobjects"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	apperrors "github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

var (
	mentee = Actor{UserID: "mentee-1", Role: authorization.RoleMentee}
	other  = Actor{UserID: "mentee-2", Role: authorization.RoleMentee}
)

func newTicket(t *testing.T, creator string) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket("TKT-20260301-0001", "Cannot join call", "The video link fails", vo.CategoryTechnical, vo.PriorityHigh, creator, nil)
	require.NoError(t, err)
	return tk
}

func newAdmin(t *testing.T, clerkID, email string) *domainUser.User {
	t.Helper()
	addr, err := uservo.NewEmail(email)
	require.NoError(t, err)
	u, err := domainUser.NewUser(clerkID, addr, "Sam", "Support")
	require.NoError(t, err)
	require.NoError(t, u.ChangeRole(authorization.RoleAdmin))
	return u
}

func errorType(err error) apperrors.ErrorType {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr.Type
	}
	return ""
}

func TestCreateTicketUseCase(t *testing.T) {
	repo := newMockTicketRepository()
	pub := testutil.NewMockEventPublisher()
	uc := NewCreateTicketUseCase(repo, testutil.NewMockBookingRepository(), &mockNumberGenerator{}, pub, logger.NewNopLogger())

	before := time.Now().UTC()
	out, err := uc.Execute(context.Background(), CreateTicketCommand{
		Actor: mentee,
		CreateTicketRequest: dto.CreateTicketRequest{
			Title:       "Refund please",
			Description: "I was charged twice",
			Category:    "billing",
			Priority:    "urgent",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "TKT-20260301-0001", out.Number)
	assert.Equal(t, "new", out.Status)
	assert.Equal(t, mentee.UserID, out.CreatorID)
	require.NotNil(t, out.SLADueTime)
	assert.WithinDuration(t, before.Add(vo.PriorityUrgent.SLA()), *out.SLADueTime, 5*time.Second)
	assert.Equal(t, []string{ticket.EventTypeTicketCreated}, pub.EventTypes())
	assert.Len(t, repo.tickets, 1)
}

func TestCreateTicketUseCase_DefaultsToMediumPriority(t *testing.T) {
	uc := NewCreateTicketUseCase(newMockTicketRepository(), testutil.NewMockBookingRepository(), &mockNumberGenerator{}, testutil.NewMockEventPublisher(), logger.NewNopLogger())

	out, err := uc.Execute(context.Background(), CreateTicketCommand{
		Actor:               mentee,
		CreateTicketRequest: dto.CreateTicketRequest{Title: "Question", Description: "How do refunds work?", Category: "other"},
	})
	require.NoError(t, err)
	assert.Equal(t, "medium", out.Priority)
}

func TestCreateTicketUseCase_Rejections(t *testing.T) {
	start := time.Now().Add(24 * time.Hour)
	b, err := booking.NewBooking(booking.NewBookingParams{
		UID:       "uid-1",
		Provider:  integration.ProviderCalcom,
		CoachID:   "coach-1",
		MenteeID:  mentee.UserID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)
	bookingID := b.ID()

	tests := []struct {
		name string
		cmd  CreateTicketCommand
		gen  *mockNumberGenerator
		want apperrors.ErrorType
	}{
		{
			name: "unknown category",
			cmd:  CreateTicketCommand{Actor: mentee, CreateTicketRequest: dto.CreateTicketRequest{Title: "x", Description: "y", Category: "sales"}},
			want: apperrors.ErrorTypeValidation,
		},
		{
			name: "empty title",
			cmd:  CreateTicketCommand{Actor: mentee, CreateTicketRequest: dto.CreateTicketRequest{Title: "  ", Description: "y", Category: "other"}},
			want: apperrors.ErrorTypeValidation,
		},
		{
			name: "booking of someone else",
			cmd:  CreateTicketCommand{Actor: other, CreateTicketRequest: dto.CreateTicketRequest{Title: "x", Description: "y", Category: "booking", BookingID: &bookingID}},
			want: apperrors.ErrorTypeValidation,
		},
		{
			name: "number generator down",
			cmd:  CreateTicketCommand{Actor: mentee, CreateTicketRequest: dto.CreateTicketRequest{Title: "x", Description: "y", Category: "booking", BookingID: &bookingID}},
			gen: &mockNumberGenerator{GenerateFunc: func(context.Context) (string, error) {
				return "", errors.New("redis unavailable")
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := tt.gen
			if gen == nil {
				gen = &mockNumberGenerator{}
			}
			uc := NewCreateTicketUseCase(newMockTicketRepository(), testutil.NewMockBookingRepository(b), gen, testutil.NewMockEventPublisher(), logger.NewNopLogger())
			_, err := uc.Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.Equal(t, tt.want, errorType(err))
		})
	}
}

func TestListTicketsUseCase_ScopesToCreator(t *testing.T) {
	repo := newMockTicketRepository(newTicket(t, mentee.UserID), newTicket(t, other.UserID))
	uc := NewListTicketsUseCase(repo, logger.NewNopLogger())

	own, err := uc.Execute(context.Background(), ListTicketsQuery{Actor: mentee})
	require.NoError(t, err)
	require.Len(t, own.Tickets, 1)
	assert.Equal(t, mentee.UserID, own.Tickets[0].CreatorID)

	all, err := uc.Execute(context.Background(), ListTicketsQuery{Actor: Actor{UserID: "admin", Role: authorization.RoleAdmin}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	_, err = uc.Execute(context.Background(), ListTicketsQuery{Actor: mentee, ListTicketsRequest: dto.ListTicketsRequest{SortBy: "title; drop"}})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), ListTicketsQuery{Actor: mentee, ListTicketsRequest: dto.ListTicketsRequest{Status: "lost"}})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestGetTicketUseCase_HidesInternalComments(t *testing.T) {
	tk := newTicket(t, mentee.UserID)
	comments := &mockCommentRepository{}
	public, err := ticket.NewComment(tk.ID(), "admin", "Looking into it", false)
	require.NoError(t, err)
	internal, err := ticket.NewComment(tk.ID(), "admin", "Known Zoom outage", true)
	require.NoError(t, err)
	comments.comments = []*ticket.Comment{public, internal}

	uc := NewGetTicketUseCase(newMockTicketRepository(tk), comments, logger.NewNopLogger())

	out, err := uc.Execute(context.Background(), tk.ID(), mentee)
	require.NoError(t, err)
	require.Len(t, out.Comments, 1)
	assert.Equal(t, "Looking into it", out.Comments[0].Content)

	out, err = uc.Execute(context.Background(), tk.ID(), Actor{UserID: "admin", Role: authorization.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, out.Comments, 2)

	_, err = uc.Execute(context.Background(), tk.ID(), other)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestAddCommentUseCase(t *testing.T) {
	tk := newTicket(t, mentee.UserID)
	repo := newMockTicketRepository(tk)
	comments := &mockCommentRepository{}
	uc := NewAddCommentUseCase(repo, comments, testutil.NoopTx{}, logger.NewNopLogger())
	admin := Actor{UserID: "admin", Role: authorization.RoleAdmin}

	_, err := uc.Execute(context.Background(), AddCommentCommand{TicketID: tk.ID(), Actor: mentee, AddCommentRequest: dto.AddCommentRequest{Content: "Any update?"}})
	require.NoError(t, err)
	assert.Nil(t, tk.ResponseTime(), "the creator's own comment is not a response")

	_, err = uc.Execute(context.Background(), AddCommentCommand{TicketID: tk.ID(), Actor: mentee, AddCommentRequest: dto.AddCommentRequest{Content: "secret", IsInternal: true}})
	assert.Equal(t, apperrors.ErrorTypeForbidden, errorType(err))

	_, err = uc.Execute(context.Background(), AddCommentCommand{TicketID: tk.ID(), Actor: admin, AddCommentRequest: dto.AddCommentRequest{Content: "triage note", IsInternal: true}})
	require.NoError(t, err)
	assert.Nil(t, tk.ResponseTime(), "internal notes are not a response")

	_, err = uc.Execute(context.Background(), AddCommentCommand{TicketID: tk.ID(), Actor: admin, AddCommentRequest: dto.AddCommentRequest{Content: "Fixed on our side"}})
	require.NoError(t, err)
	assert.NotNil(t, tk.ResponseTime())
	assert.Len(t, comments.comments, 3)

	_, err = uc.Execute(context.Background(), AddCommentCommand{TicketID: tk.ID(), Actor: other, AddCommentRequest: dto.AddCommentRequest{Content: "hi"}})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestAddCommentUseCase_SaveFailureLeavesTicketUntouched(t *testing.T) {
	tk := newTicket(t, mentee.UserID)
	repo := newMockTicketRepository(tk)
	updated := false
	repo.UpdateFunc = func(context.Context, *ticket.Ticket) error {
		updated = true
		return nil
	}
	comments := &mockCommentRepository{CreateFunc: func(context.Context, *ticket.Comment) error {
		return errors.New("db down")
	}}
	uc := NewAddCommentUseCase(repo, comments, testutil.NoopTx{}, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), AddCommentCommand{TicketID: tk.ID(), Actor: mentee, AddCommentRequest: dto.AddCommentRequest{Content: "hello"}})
	require.Error(t, err)
	assert.False(t, updated)
}

func TestChangeStatusUseCase(t *testing.T) {
	tk := newTicket(t, mentee.UserID)
	repo := newMockTicketRepository(tk)
	pub := testutil.NewMockEventPublisher()
	uc := NewChangeStatusUseCase(repo, pub, logger.NewNopLogger())
	admin := Actor{UserID: "admin", Role: authorization.RoleAdmin}

	_, err := uc.Execute(context.Background(), ChangeStatusCommand{TicketID: tk.ID(), Actor: mentee, Status: "in_progress"})
	assert.Equal(t, apperrors.ErrorTypeForbidden, errorType(err))

	_, err = uc.Execute(context.Background(), ChangeStatusCommand{TicketID: tk.ID(), Actor: admin, Status: "resolved"})
	assert.True(t, apperrors.IsConflictError(err), "new cannot jump to resolved")

	out, err := uc.Execute(context.Background(), ChangeStatusCommand{TicketID: tk.ID(), Actor: admin, Status: "open"})
	require.NoError(t, err)
	assert.Equal(t, "open", out.Status)

	out, err = uc.Execute(context.Background(), ChangeStatusCommand{TicketID: tk.ID(), Actor: mentee, Status: "closed"})
	require.NoError(t, err)
	assert.Equal(t, "closed", out.Status)
	assert.NotNil(t, out.ClosedAt)

	out, err = uc.Execute(context.Background(), ChangeStatusCommand{TicketID: tk.ID(), Actor: mentee, Status: "reopened"})
	require.NoError(t, err)
	assert.Nil(t, out.ClosedAt)

	assert.Equal(t, []string{
		ticket.EventTypeTicketStatusChanged,
		ticket.EventTypeTicketStatusChanged,
		ticket.EventTypeTicketStatusChanged,
	}, pub.EventTypes())
}

func TestAssignTicketUseCase(t *testing.T) {
	tk := newTicket(t, mentee.UserID)
	staff := newAdmin(t, "clerk_admin", "support@example.com")
	users := testutil.NewMockUserRepository(staff)
	pub := testutil.NewMockEventPublisher()
	uc := NewAssignTicketUseCase(newMockTicketRepository(tk), users, pub, logger.NewNopLogger())
	admin := Actor{UserID: staff.ID(), Role: authorization.RoleAdmin}

	_, err := uc.Execute(context.Background(), AssignTicketCommand{TicketID: tk.ID(), AssigneeID: staff.ID(), Actor: mentee})
	assert.Equal(t, apperrors.ErrorTypeForbidden, errorType(err))

	_, err = uc.Execute(context.Background(), AssignTicketCommand{TicketID: tk.ID(), AssigneeID: "nobody", Actor: admin})
	assert.True(t, apperrors.IsValidationError(err))

	out, err := uc.Execute(context.Background(), AssignTicketCommand{TicketID: tk.ID(), AssigneeID: staff.ID(), Actor: admin})
	require.NoError(t, err)
	require.NotNil(t, out.AssigneeID)
	assert.Equal(t, staff.ID(), *out.AssigneeID)
	assert.Equal(t, "open", out.Status)
	assert.Equal(t, []string{ticket.EventTypeTicketAssigned}, pub.EventTypes())
}

func TestChangePriorityUseCase(t *testing.T) {
	tk := newTicket(t, mentee.UserID)
	uc := NewChangePriorityUseCase(newMockTicketRepository(tk), logger.NewNopLogger())
	admin := Actor{UserID: "admin", Role: authorization.RoleAdmin}

	_, err := uc.Execute(context.Background(), ChangePriorityCommand{TicketID: tk.ID(), Priority: "low", Actor: mentee})
	assert.Equal(t, apperrors.ErrorTypeForbidden, errorType(err))

	out, err := uc.Execute(context.Background(), ChangePriorityCommand{TicketID: tk.ID(), Priority: "low", Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, "low", out.Priority)
	require.NotNil(t, out.SLADueTime)
	assert.Equal(t, tk.CreatedAt().Add(vo.PriorityLow.SLA()), *out.SLADueTime)
}
