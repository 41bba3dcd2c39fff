package usecases

import (
	"context"
	"fmt"

	"github.com/coachhub/coachhub/internal/application/scheduling/dto"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/shared/errors"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type ListIntegrationsUseCase struct {
	integrationRepo integration.Repository
	logger          logger.Interface
}

func NewListIntegrationsUseCase(integrationRepo integration.Repository, logger logger.Interface) *ListIntegrationsUseCase {
	return &ListIntegrationsUseCase{integrationRepo: integrationRepo, logger: logger}
}

// Execute reports the connection status of every provider, connected or not.
func (uc *ListIntegrationsUseCase) Execute(ctx context.Context, userID string) ([]*dto.IntegrationDTO, error) {
	items, err := uc.integrationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	byProvider := make(map[integration.Provider]*integration.Integration, len(items))
	for _, i := range items {
		byProvider[i.Provider()] = i
	}

	out := make([]*dto.IntegrationDTO, 0, 2)
	for _, p := range []integration.Provider{integration.ProviderCalcom, integration.ProviderCalendly} {
		out = append(out, dto.ToIntegrationDTO(p, byProvider[p]))
	}
	return out, nil
}

type DisconnectIntegrationUseCase struct {
	integrationRepo integration.Repository
	logger          logger.Interface
}

func NewDisconnectIntegrationUseCase(integrationRepo integration.Repository, logger logger.Interface) *DisconnectIntegrationUseCase {
	return &DisconnectIntegrationUseCase{integrationRepo: integrationRepo, logger: logger}
}

// Execute removes the stored credentials. Booking mirrors are kept.
func (uc *DisconnectIntegrationUseCase) Execute(ctx context.Context, userID, providerName string) error {
	p, err := integration.ParseProvider(providerName)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}
	i, err := uc.integrationRepo.GetByUserAndProvider(ctx, userID, p)
	if err != nil {
		return fmt.Errorf("failed to load integration: %w", err)
	}
	if i == nil {
		return errors.NewNotFoundError(fmt.Sprintf("%s is not connected", p))
	}
	if err := uc.integrationRepo.Delete(ctx, i.ID()); err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}
	uc.logger.Infow("integration disconnected", "integration_id", i.ID(), "provider", p, "user_id", userID)
	return nil
}
