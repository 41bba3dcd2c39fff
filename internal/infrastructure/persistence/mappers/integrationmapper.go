package mappers

import (
	"fmt"

	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
)

// TokenCipher seals OAuth tokens at rest.
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type IntegrationMapper interface {
	ToEntity(model *models.IntegrationModel) (*integration.Integration, error)
	ToModel(entity *integration.Integration) (*models.IntegrationModel, error)
	ToEntities(models []*models.IntegrationModel) ([]*integration.Integration, error)
}

type IntegrationMapperImpl struct {
	cipher TokenCipher
}

func NewIntegrationMapper(cipher TokenCipher) IntegrationMapper {
	return &IntegrationMapperImpl{cipher: cipher}
}

func (m *IntegrationMapperImpl) ToEntity(model *models.IntegrationModel) (*integration.Integration, error) {
	if model == nil {
		return nil, nil
	}

	access, err := m.cipher.Decrypt(model.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token for integration %s: %w", model.ID, err)
	}
	refresh := ""
	if model.RefreshToken != "" {
		if refresh, err = m.cipher.Decrypt(model.RefreshToken); err != nil {
			return nil, fmt.Errorf("failed to decrypt refresh token for integration %s: %w", model.ID, err)
		}
	}

	tokens := integration.Tokens{
		AccessToken:      access,
		RefreshToken:     refresh,
		RefreshExpiresAt: utcPtr(model.RefreshExpiresAt),
	}
	if model.AccessExpiresAt != nil {
		tokens.AccessExpiresAt = model.AccessExpiresAt.UTC()
	}

	return integration.ReconstructIntegration(
		model.ID,
		model.UserID,
		integration.Provider(model.Provider),
		integration.Status(model.Status),
		model.ExternalUserID,
		model.OrganizationURI,
		tokens,
		utcPtr(model.LastRefreshedAt),
		utcPtr(model.LastSyncedAt),
		model.LastError,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *IntegrationMapperImpl) ToModel(entity *integration.Integration) (*models.IntegrationModel, error) {
	if entity == nil {
		return nil, nil
	}

	tokens := entity.Tokens()
	access, err := m.cipher.Encrypt(tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}
	refresh := ""
	if tokens.RefreshToken != "" {
		if refresh, err = m.cipher.Encrypt(tokens.RefreshToken); err != nil {
			return nil, fmt.Errorf("failed to encrypt refresh token: %w", err)
		}
	}
	accessExpiresAt := tokens.AccessExpiresAt.UTC()

	return &models.IntegrationModel{
		ID:               entity.ID(),
		UserID:           entity.UserID(),
		Provider:         entity.Provider().String(),
		Status:           entity.Status().String(),
		ExternalUserID:   entity.ExternalUserID(),
		OrganizationURI:  entity.OrganizationURI(),
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  &accessExpiresAt,
		RefreshExpiresAt: utcPtr(tokens.RefreshExpiresAt),
		LastRefreshedAt:  utcPtr(entity.LastRefreshedAt()),
		LastSyncedAt:     utcPtr(entity.LastSyncedAt()),
		LastError:        entity.LastError(),
		Version:          entity.Version(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}, nil
}

func (m *IntegrationMapperImpl) ToEntities(list []*models.IntegrationModel) ([]*integration.Integration, error) {
	out := make([]*integration.Integration, 0, len(list))
	for _, model := range list {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
