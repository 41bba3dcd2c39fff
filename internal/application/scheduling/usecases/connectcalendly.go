package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/application/scheduling/provider"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/domain/user"
	"github.com/coachhub/coachhub/internal/infrastructure/cache"
	"github.com/coachhub/coachhub/internal/infrastructure/token"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

// StateStore keeps the OAuth state and PKCE verifier between the connect
// redirect and the callback.
type StateStore interface {
	Set(ctx context.Context, state string, info cache.StateInfo) error
	VerifyAndGet(ctx context.Context, state string) (*cache.StateInfo, error)
}

type StartCalendlyConnectResult struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

type StartCalendlyConnectUseCase struct {
	userRepo   user.Repository
	client     provider.CalendlyClient
	stateStore StateStore
	logger     logger.Interface
}

func NewStartCalendlyConnectUseCase(
	userRepo user.Repository,
	client provider.CalendlyClient,
	stateStore StateStore,
	logger logger.Interface,
) *StartCalendlyConnectUseCase {
	return &StartCalendlyConnectUseCase{
		userRepo:   userRepo,
		client:     client,
		stateStore: stateStore,
		logger:     logger,
	}
}

func (uc *StartCalendlyConnectUseCase) Execute(ctx context.Context, userID string) (*StartCalendlyConnectResult, error) {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil || !u.IsCoach() {
		return nil, errors.NewForbiddenError("only coaches can connect a calendar")
	}

	state, err := token.NewState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}
	verifier, challenge, err := token.NewPKCE()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code verifier: %w", err)
	}

	if err := uc.stateStore.Set(ctx, state, cache.StateInfo{
		UserID:       userID,
		Provider:     integration.ProviderCalendly.String(),
		CodeVerifier: verifier,
	}); err != nil {
		uc.logger.Errorw("failed to store oauth state", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to store state: %w", err)
	}

	uc.logger.Infow("calendly authorization started", "user_id", userID)
	return &StartCalendlyConnectResult{
		AuthURL: uc.client.AuthCodeURL(state, challenge),
		State:   state,
	}, nil
}

type CompleteCalendlyConnectCommand struct {
	State string
	Code  string
	// Error is the provider's error parameter when the coach denied consent.
	Error string
}

type CompleteCalendlyConnectUseCase struct {
	integrationRepo integration.Repository
	client          provider.CalendlyClient
	stateStore      StateStore
	logger          logger.Interface
}

func NewCompleteCalendlyConnectUseCase(
	integrationRepo integration.Repository,
	client provider.CalendlyClient,
	stateStore StateStore,
	logger logger.Interface,
) *CompleteCalendlyConnectUseCase {
	return &CompleteCalendlyConnectUseCase{
		integrationRepo: integrationRepo,
		client:          client,
		stateStore:      stateStore,
		logger:          logger,
	}
}

// Execute consumes the one-time state and exchanges the code for tokens.
func (uc *CompleteCalendlyConnectUseCase) Execute(ctx context.Context, cmd CompleteCalendlyConnectCommand) (*dto.IntegrationDTO, error) {
	if cmd.State == "" {
		return nil, errors.NewBadRequestError("state is required")
	}
	info, err := uc.stateStore.VerifyAndGet(ctx, cmd.State)
	if err != nil {
		uc.logger.Warnw("invalid or expired oauth state", "error", err)
		return nil, errors.NewBadRequestError("invalid or expired state parameter")
	}
	if info.Provider != integration.ProviderCalendly.String() {
		return nil, errors.NewBadRequestError("invalid or expired state parameter")
	}
	if cmd.Error != "" {
		return nil, errors.NewBadRequestError("calendly authorization was not granted", cmd.Error)
	}
	if cmd.Code == "" {
		return nil, errors.NewBadRequestError("code is required")
	}

	grant, err := uc.client.Exchange(ctx, cmd.Code, info.CodeVerifier)
	if err != nil {
		uc.logger.Errorw("failed to exchange calendly code", "user_id", info.UserID, "error", err)
		return nil, upstreamError("exchange authorization code", integration.ProviderCalendly, err)
	}

	// One Calendly account backs at most one coach.
	owner, err := uc.integrationRepo.GetByExternalUserID(ctx, integration.ProviderCalendly, grant.UserURI)
	if err != nil {
		return nil, fmt.Errorf("failed to check calendly account: %w", err)
	}
	if owner != nil && owner.UserID() != info.UserID {
		return nil, errors.NewConflictError("this Calendly account is connected to another coach")
	}

	existing, err := uc.integrationRepo.GetByUserAndProvider(ctx, info.UserID, integration.ProviderCalendly)
	if err != nil {
		return nil, fmt.Errorf("failed to load integration: %w", err)
	}
	if existing != nil {
		if err := existing.Reconnect(grant.UserURI, grant.OrganizationURI, grant.Tokens); err != nil {
			return nil, errors.NewUpstreamError("calendly returned unusable tokens", err.Error())
		}
		if err := uc.integrationRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to save integration: %w", err)
		}
		uc.logger.Infow("calendly integration reconnected", "integration_id", existing.ID())
		return dto.ToIntegrationDTO(integration.ProviderCalendly, existing), nil
	}

	i, err := integration.NewIntegration(info.UserID, integration.ProviderCalendly, grant.UserURI, grant.OrganizationURI, grant.Tokens)
	if err != nil {
		return nil, errors.NewUpstreamError("calendly returned unusable tokens", err.Error())
	}
	if err := uc.integrationRepo.Create(ctx, i); err != nil {
		return nil, fmt.Errorf("failed to save integration: %w", err)
	}

	uc.logger.Infow("calendly integration connected", "integration_id", i.ID(), "user_uri", grant.UserURI)
	return dto.ToIntegrationDTO(integration.ProviderCalendly, i), nil
}
