package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/user/dto"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// UpdateProfileUseCase handles self-service profile changes.
type UpdateProfileUseCase struct {
	userRepo domainUser.Repository
	logger   logger.Interface
}

func NewUpdateProfileUseCase(userRepo domainUser.Repository, logger logger.Interface) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, userID string, request dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	uc.logger.Infow("executing update profile use case", "user_id", userID)

	if request.FirstName == nil && request.LastName == nil && request.Timezone == nil && request.AvatarURL == nil {
		return nil, errors.NewValidationError("at least one field must be provided for update")
	}

	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil || u.IsDeleted() {
		return nil, errors.NewNotFoundError("user not found")
	}

	if err := u.UpdateProfile(request.FirstName, request.LastName, request.Timezone, request.AvatarURL); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to persist user updates", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to save user updates: %w", err)
	}

	uc.logger.Infow("profile updated successfully", "user_id", userID)
	return dto.ToUserResponse(u), nil
}
