package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/user/dto"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type GetUserUseCase struct {
	userRepo domainUser.Repository
	logger   logger.Interface
}

func NewGetUserUseCase(userRepo domainUser.Repository, logger logger.Interface) *GetUserUseCase {
	return &GetUserUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (uc *GetUserUseCase) Execute(ctx context.Context, userID string) (*dto.UserResponse, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user ID is required")
	}

	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil || u.IsDeleted() {
		return nil, errors.NewNotFoundError("user not found")
	}
	return dto.ToUserResponse(u), nil
}
