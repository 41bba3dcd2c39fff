package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type ConnectCalcomCommand struct {
	UserID string
}

type ConnectCalcomUseCase struct {
	userRepo        user.Repository
	integrationRepo integration.Repository
	client          provider.CalcomClient
	logger          logger.Interface
}

func NewConnectCalcomUseCase(
	userRepo user.Repository,
	integrationRepo integration.Repository,
	client provider.CalcomClient,
	logger logger.Interface,
) *ConnectCalcomUseCase {
	return &ConnectCalcomUseCase{
		userRepo:        userRepo,
		integrationRepo: integrationRepo,
		client:          client,
		logger:          logger,
	}
}

// Execute provisions a Cal.com managed user for the coach. A coach whose
// managed user already exists gets fresh tokens through a force refresh.
func (uc *ConnectCalcomUseCase) Execute(ctx context.Context, cmd ConnectCalcomCommand) (*dto.IntegrationDTO, error) {
	uc.logger.Infow("executing connect cal.com use case", "user_id", cmd.UserID)

	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil || u.IsDeleted() {
		return nil, errors.NewNotFoundError("user not found")
	}
	if !u.IsCoach() {
		return nil, errors.NewForbiddenError("only coaches can connect a calendar")
	}

	existing, err := uc.integrationRepo.GetByUserAndProvider(ctx, u.ID(), integration.ProviderCalcom)
	if err != nil {
		return nil, fmt.Errorf("failed to load integration: %w", err)
	}

	if existing != nil {
		if existing.IsActive() {
			return nil, errors.NewConflictError("cal.com is already connected")
		}
		tokens, err := uc.client.ForceRefresh(ctx, existing)
		if err != nil {
			uc.logger.Errorw("failed to renew managed user tokens", "integration_id", existing.ID(), "error", err)
			return nil, upstreamError("renew managed user", integration.ProviderCalcom, err)
		}
		if err := existing.ApplyTokens(tokens); err != nil {
			return nil, errors.NewUpstreamError("cal.com returned unusable tokens", err.Error())
		}
		if err := uc.integrationRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to save integration: %w", err)
		}
		uc.logger.Infow("cal.com integration reconnected", "integration_id", existing.ID())
		return dto.ToIntegrationDTO(integration.ProviderCalcom, existing), nil
	}

	tz := u.Timezone()
	if tz == "" {
		tz = "UTC"
	}
	managed, err := uc.client.CreateManagedUser(ctx, u.Email().String(), u.DisplayName(), tz)
	if err != nil {
		uc.logger.Errorw("failed to create managed user", "user_id", u.ID(), "error", err)
		return nil, upstreamError("create managed user", integration.ProviderCalcom, err)
	}

	i, err := integration.NewIntegration(u.ID(), integration.ProviderCalcom, managed.ExternalUserID, "", managed.Tokens)
	if err != nil {
		return nil, errors.NewUpstreamError("cal.com returned an unusable managed user", err.Error())
	}
	if err := uc.integrationRepo.Create(ctx, i); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("cal.com is already connected")
		}
		return nil, fmt.Errorf("failed to save integration: %w", err)
	}

	uc.logger.Infow("cal.com integration connected", "integration_id", i.ID(), "external_user_id", managed.ExternalUserID)
	return dto.ToIntegrationDTO(integration.ProviderCalcom, i), nil
}
