package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/coach/dto"
	"github.com/coachhub/coachhub/internal/domain/coach"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type GetCoachUseCase struct {
	userRepo    domainUser.Repository
	profileRepo coach.ProfileRepository
	logger      logger.Interface
}

func NewGetCoachUseCase(userRepo domainUser.Repository, profileRepo coach.ProfileRepository, logger logger.Interface) *GetCoachUseCase {
	return &GetCoachUseCase{userRepo: userRepo, profileRepo: profileRepo, logger: logger}
}

func (uc *GetCoachUseCase) Execute(ctx context.Context, coachID string) (*dto.CoachDTO, error) {
	u, err := uc.userRepo.GetByID(ctx, coachID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil || u.IsDeleted() || !u.IsCoach() {
		return nil, errors.NewNotFoundError("coach not found")
	}
	p, err := uc.profileRepo.GetByUserID(ctx, coachID)
	if err != nil {
		return nil, fmt.Errorf("failed to get coach profile: %w", err)
	}
	if p == nil {
		return nil, errors.NewNotFoundError("coach not found")
	}
	return dto.ToCoachDTO(p, u), nil
}
