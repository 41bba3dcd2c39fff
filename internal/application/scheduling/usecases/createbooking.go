package usecases

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/coach"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type CreateBookingCommand struct {
	MenteeID string
	CoachID  string
	Start    time.Time
	TimeZone string
	Notes    string
}

type CreateBookingUseCase struct {
	userRepo    user.Repository
	profileRepo coach.ProfileRepository
	bookingRepo booking.Repository
	access      providerAccess
	reconciler  *Reconciler
	logger      logger.Interface
	now         func() time.Time
}

func NewCreateBookingUseCase(
	userRepo user.Repository,
	profileRepo coach.ProfileRepository,
	bookingRepo booking.Repository,
	integrationRepo integration.Repository,
	clients provider.Registry,
	tokens TokenSource,
	reconciler *Reconciler,
	logger logger.Interface,
) *CreateBookingUseCase {
	return &CreateBookingUseCase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		bookingRepo: bookingRepo,
		access:      providerAccess{integrations: integrationRepo, clients: clients, tokens: tokens},
		reconciler:  reconciler,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

// Execute books a Cal.com slot of the coach for the mentee. The booking is
// created upstream first and then mirrored.
func (uc *CreateBookingUseCase) Execute(ctx context.Context, cmd CreateBookingCommand) (*dto.BookingDTO, error) {
	uc.logger.Infow("executing create booking use case", "mentee_id", cmd.MenteeID, "coach_id", cmd.CoachID)

	if cmd.MenteeID == cmd.CoachID {
		return nil, errors.NewValidationError("coaches cannot book themselves")
	}
	if !cmd.Start.After(uc.now()) {
		return nil, errors.NewValidationError("start must be in the future")
	}
	if cmd.TimeZone == "" {
		cmd.TimeZone = "UTC"
	}
	if !biztime.ValidTimezone(cmd.TimeZone) {
		return nil, errors.NewValidationError("invalid time zone", cmd.TimeZone)
	}

	mentee, err := uc.userRepo.GetByID(ctx, cmd.MenteeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mentee: %w", err)
	}
	if mentee == nil || mentee.IsDeleted() {
		return nil, errors.NewNotFoundError("user not found")
	}

	profile, err := uc.profileRepo.GetByUserID(ctx, cmd.CoachID)
	if err != nil {
		return nil, fmt.Errorf("failed to load coach profile: %w", err)
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("coach not found", cmd.CoachID)
	}
	if !profile.IsBookable() {
		return nil, errors.NewConflictError("coach is not accepting bookings")
	}
	if profile.Provider() != integration.ProviderCalcom || profile.CalcomEventTypeID() == nil {
		return nil, errors.NewBadRequestError("coach takes bookings through their scheduling page",
			profile.CalendlySchedulingURL())
	}

	client, token, err := uc.access.forCoach(ctx, cmd.CoachID, integration.ProviderCalcom)
	if err != nil {
		return nil, err
	}
	calcom, ok := client.(provider.CalcomClient)
	if !ok {
		return nil, errors.NewInternalError("cal.com client is not configured")
	}

	remote, err := calcom.CreateBooking(ctx, token, provider.CreateBookingRequest{
		EventTypeID:   strconv.FormatInt(*profile.CalcomEventTypeID(), 10),
		Start:         cmd.Start.UTC(),
		AttendeeName:  mentee.DisplayName(),
		AttendeeEmail: mentee.Email().String(),
		TimeZone:      cmd.TimeZone,
		Metadata: map[string]string{
			"mentee_id": mentee.ID(),
			"notes":     cmd.Notes,
		},
	})
	if err != nil {
		uc.logger.Errorw("failed to create upstream booking", "coach_id", cmd.CoachID, "error", err)
		if provider.StatusCode(err) == 409 || provider.StatusCode(err) == 400 {
			return nil, errors.NewConflictError("the requested slot is not available", err.Error())
		}
		return nil, upstreamError("create booking", integration.ProviderCalcom, err)
	}

	if _, err := uc.reconciler.Apply(ctx, cmd.CoachID, integration.ProviderCalcom, *remote); err != nil {
		return nil, err
	}
	b, err := uc.bookingRepo.GetByUID(ctx, remote.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking mirror: %w", err)
	}
	if b == nil {
		return nil, errors.NewInternalError("booking was created upstream but could not be mirrored", remote.UID)
	}
	if b.MenteeID() == "" {
		b.LinkMentee(mentee.ID())
		if err := uc.bookingRepo.Update(ctx, b); err != nil {
			return nil, fmt.Errorf("failed to link mentee: %w", err)
		}
	}

	uc.logger.Infow("booking created", "booking_id", b.ID(), "uid", b.UID(), "status", b.Status())
	return dto.ToBookingDTO(b), nil
}
