package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/schedule"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type CreateScheduleCommand struct {
	CoachID      string
	Name         string
	TimeZone     string
	IsDefault    bool
	Availability []schedule.AvailabilityRule
}

// ScheduleUseCases mirrors Cal.com availability schedules. Every write goes
// upstream first.
type ScheduleUseCases struct {
	scheduleRepo schedule.Repository
	access       providerAccess
	logger       logger.Interface
}

func NewScheduleUseCases(
	scheduleRepo schedule.Repository,
	integrationRepo integration.Repository,
	clients provider.Registry,
	tokens TokenSource,
	logger logger.Interface,
) *ScheduleUseCases {
	return &ScheduleUseCases{
		scheduleRepo: scheduleRepo,
		access:       providerAccess{integrations: integrationRepo, clients: clients, tokens: tokens},
		logger:       logger,
	}
}

func (uc *ScheduleUseCases) calcom(ctx context.Context, coachID string) (provider.CalcomClient, string, error) {
	client, token, err := uc.access.forCoach(ctx, coachID, integration.ProviderCalcom)
	if err != nil {
		return nil, "", err
	}
	calcom, ok := client.(provider.CalcomClient)
	if !ok {
		return nil, "", errors.NewInternalError("cal.com client is not configured")
	}
	return calcom, token, nil
}

func (uc *ScheduleUseCases) List(ctx context.Context, coachID string) ([]*dto.ScheduleDTO, error) {
	items, err := uc.scheduleRepo.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	out := make([]*dto.ScheduleDTO, 0, len(items))
	for _, s := range items {
		out = append(out, dto.ToScheduleDTO(s))
	}
	return out, nil
}

// Create adds a schedule. The coach's first schedule becomes the default.
func (uc *ScheduleUseCases) Create(ctx context.Context, cmd CreateScheduleCommand) (*dto.ScheduleDTO, error) {
	uc.logger.Infow("executing create schedule use case", "coach_id", cmd.CoachID, "name", cmd.Name)

	// Validate before calling out so upstream never sees a bad schedule.
	if _, err := schedule.NewSchedule(cmd.CoachID, 0, cmd.Name, cmd.TimeZone, cmd.Availability); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	existing, err := uc.scheduleRepo.ListByCoach(ctx, cmd.CoachID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	makeDefault := cmd.IsDefault || len(existing) == 0

	client, token, err := uc.calcom(ctx, cmd.CoachID)
	if err != nil {
		return nil, err
	}
	calcomID, err := client.CreateSchedule(ctx, token, provider.ScheduleInput{
		Name:         cmd.Name,
		TimeZone:     cmd.TimeZone,
		IsDefault:    makeDefault,
		Availability: cmd.Availability,
	})
	if err != nil {
		uc.logger.Errorw("failed to create upstream schedule", "coach_id", cmd.CoachID, "error", err)
		return nil, upstreamError("create schedule", integration.ProviderCalcom, err)
	}

	s, err := schedule.NewSchedule(cmd.CoachID, calcomID, cmd.Name, cmd.TimeZone, cmd.Availability)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.scheduleRepo.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}
	if makeDefault {
		if err := uc.scheduleRepo.SetDefault(ctx, cmd.CoachID, s.ID()); err != nil {
			return nil, fmt.Errorf("failed to set default schedule: %w", err)
		}
		s.MarkDefault()
	}

	uc.logger.Infow("schedule created", "schedule_id", s.ID(), "calcom_schedule_id", calcomID, "default", makeDefault)
	return dto.ToScheduleDTO(s), nil
}

func (uc *ScheduleUseCases) load(ctx context.Context, coachID, scheduleID string) (*schedule.Schedule, error) {
	s, err := uc.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if s == nil || !s.IsOwnedBy(coachID) {
		return nil, errors.NewNotFoundError("schedule not found", scheduleID)
	}
	return s, nil
}

// SetDefault makes scheduleID the coach's only default schedule.
func (uc *ScheduleUseCases) SetDefault(ctx context.Context, coachID, scheduleID string) (*dto.ScheduleDTO, error) {
	s, err := uc.load(ctx, coachID, scheduleID)
	if err != nil {
		return nil, err
	}
	if s.IsDefault() {
		return dto.ToScheduleDTO(s), nil
	}

	client, token, err := uc.calcom(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if err := client.SetDefaultSchedule(ctx, token, s.CalcomScheduleID()); err != nil {
		uc.logger.Errorw("failed to set upstream default schedule", "schedule_id", s.ID(), "error", err)
		return nil, upstreamError("set default schedule", integration.ProviderCalcom, err)
	}
	if err := uc.scheduleRepo.SetDefault(ctx, coachID, s.ID()); err != nil {
		return nil, fmt.Errorf("failed to set default schedule: %w", err)
	}
	s.MarkDefault()

	uc.logger.Infow("default schedule changed", "coach_id", coachID, "schedule_id", s.ID())
	return dto.ToScheduleDTO(s), nil
}

// Delete removes a non-default schedule.
func (uc *ScheduleUseCases) Delete(ctx context.Context, coachID, scheduleID string) error {
	s, err := uc.load(ctx, coachID, scheduleID)
	if err != nil {
		return err
	}
	if err := s.CanDelete(); err != nil {
		return errors.NewConflictError(err.Error())
	}

	client, token, err := uc.calcom(ctx, coachID)
	if err != nil {
		return err
	}
	if err := client.DeleteSchedule(ctx, token, s.CalcomScheduleID()); err != nil && provider.StatusCode(err) != 404 {
		uc.logger.Errorw("failed to delete upstream schedule", "schedule_id", s.ID(), "error", err)
		return upstreamError("delete schedule", integration.ProviderCalcom, err)
	}
	if err := uc.scheduleRepo.Delete(ctx, s.ID()); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	uc.logger.Infow("schedule deleted", "schedule_id", s.ID())
	return nil
}
