package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/goal/dto"
	"github.com/coachhub/coachhub/internal/domain/goal"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
	"github.com/coachhub/coachhub/internal/shared/utils"
)

// GoalUseCases manages mentee goals. The mentee owns a goal; the linked
// coach may read it and report progress.
type GoalUseCases struct {
	goalRepo goal.Repository
	userRepo domainUser.Repository
	logger   logger.Interface
}

func NewGoalUseCases(goalRepo goal.Repository, userRepo domainUser.Repository, logger logger.Interface) *GoalUseCases {
	return &GoalUseCases{goalRepo: goalRepo, userRepo: userRepo, logger: logger}
}

func (uc *GoalUseCases) Create(ctx context.Context, menteeID string, req dto.CreateGoalRequest) (*dto.GoalDTO, error) {
	uc.logger.Infow("executing create goal use case", "mentee_id", menteeID)

	if err := uc.checkCoach(ctx, menteeID, req.CoachID); err != nil {
		return nil, err
	}
	g, err := goal.NewGoal(menteeID, req.CoachID, req.Title, req.Description, req.TargetDate)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.goalRepo.Create(ctx, g); err != nil {
		uc.logger.Errorw("failed to create goal", "mentee_id", menteeID, "error", err)
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return dto.ToGoalDTO(g), nil
}

// List returns goals the user owns or coaches.
func (uc *GoalUseCases) List(ctx context.Context, userID, status string, page, pageSize int) (*dto.ListGoalsResponse, error) {
	p := utils.ValidatePagination(page, pageSize)
	filter := goal.ListFilter{
		Page:     p.Page,
		PageSize: p.PageSize,
		MenteeID: userID,
		CoachID:  userID,
	}
	if status != "" {
		st := goal.Status(status)
		if !st.IsValid() {
			return nil, errors.NewValidationError("invalid goal status", status)
		}
		filter.Status = &st
	}

	goals, total, err := uc.goalRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	out := make([]*dto.GoalDTO, 0, len(goals))
	for _, g := range goals {
		out = append(out, dto.ToGoalDTO(g))
	}
	return &dto.ListGoalsResponse{Goals: out, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

func (uc *GoalUseCases) Get(ctx context.Context, goalID, userID string) (*dto.GoalDTO, error) {
	g, err := uc.load(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToGoalDTO(g), nil
}

func (uc *GoalUseCases) Update(ctx context.Context, goalID, userID string, req dto.UpdateGoalRequest) (*dto.GoalDTO, error) {
	g, err := uc.load(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	if !g.IsOwnedBy(userID) {
		return nil, errors.NewForbiddenError("only the mentee can edit this goal")
	}
	if err := uc.checkCoach(ctx, userID, req.CoachID); err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := g.ChangeStatus(goal.Status(req.Status)); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if g.Status() != goal.StatusArchived {
		if err := g.Update(req.Title, req.Description, req.TargetDate, req.CoachID); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if err := uc.goalRepo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return dto.ToGoalDTO(g), nil
}

func (uc *GoalUseCases) UpdateProgress(ctx context.Context, goalID, userID string, progress int) (*dto.GoalDTO, error) {
	g, err := uc.load(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	if err := g.SetProgress(progress); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.goalRepo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to update goal progress: %w", err)
	}
	uc.logger.Infow("goal progress updated", "goal_id", g.ID(), "user_id", userID, "progress", progress)
	return dto.ToGoalDTO(g), nil
}

func (uc *GoalUseCases) Delete(ctx context.Context, goalID, userID string) error {
	g, err := uc.load(ctx, goalID, userID)
	if err != nil {
		return err
	}
	if !g.IsOwnedBy(userID) {
		return errors.NewForbiddenError("only the mentee can delete this goal")
	}
	if err := uc.goalRepo.Delete(ctx, g.ID()); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

func (uc *GoalUseCases) load(ctx context.Context, goalID, userID string) (*goal.Goal, error) {
	g, err := uc.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	if g == nil || !g.CanView(userID) {
		return nil, errors.NewNotFoundError("goal not found")
	}
	return g, nil
}

func (uc *GoalUseCases) checkCoach(ctx context.Context, menteeID string, coachID *string) error {
	if coachID == nil || *coachID == "" {
		return nil
	}
	if *coachID == menteeID {
		return errors.NewValidationError("a goal cannot be coached by its owner")
	}
	c, err := uc.userRepo.GetByID(ctx, *coachID)
	if err != nil {
		return fmt.Errorf("failed to get coach: %w", err)
	}
	if c == nil || c.IsDeleted() || !c.IsCoach() {
		return errors.NewValidationError("coach not found", *coachID)
	}
	return nil
}
