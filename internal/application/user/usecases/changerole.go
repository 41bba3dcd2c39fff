package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/user/dto"
	domainUser "github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/authorization"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type ChangeRoleCommand struct {
	ActorID string
	UserID  string
	Role    string
}

// ChangeRoleUseCase lets an admin move a user between roles.
type ChangeRoleUseCase struct {
	userRepo   domainUser.Repository
	identities IdentityPurger
	listings   CoachListingInvalidator
	logger     logger.Interface
}

func NewChangeRoleUseCase(
	userRepo domainUser.Repository,
	identities IdentityPurger,
	listings CoachListingInvalidator,
	logger logger.Interface,
) *ChangeRoleUseCase {
	return &ChangeRoleUseCase{
		userRepo:   userRepo,
		identities: identities,
		listings:   listings,
		logger:     logger,
	}
}

func (uc *ChangeRoleUseCase) Execute(ctx context.Context, cmd ChangeRoleCommand) (*dto.UserResponse, error) {
	uc.logger.Infow("executing change role use case", "actor_id", cmd.ActorID, "user_id", cmd.UserID, "role", cmd.Role)

	role := authorization.UserRole(cmd.Role)
	if !role.IsValid() {
		return nil, errors.NewValidationError("invalid role", cmd.Role)
	}
	if cmd.ActorID == cmd.UserID {
		return nil, errors.NewForbiddenError("admins cannot change their own role")
	}

	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil || u.IsDeleted() {
		return nil, errors.NewNotFoundError("user not found")
	}

	previous := u.Role()
	if previous == role {
		return dto.ToUserResponse(u), nil
	}
	if err := u.ChangeRole(role); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to update user role", "user_id", u.ID(), "error", err)
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	uc.identities.Purge(u.ClerkUserID())
	if previous.IsCoach() || role.IsCoach() {
		if err := uc.listings.Invalidate(ctx); err != nil {
			uc.logger.Warnw("failed to invalidate coach listing cache", "error", err)
		}
	}

	uc.logger.Infow("user role changed", "user_id", u.ID(), "from", previous, "to", role)
	return dto.ToUserResponse(u), nil
}
