package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/mappers"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
	"github.com/coachhub/coachhub/internal/shared/db"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type IntegrationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.IntegrationMapper
	logger logger.Interface
}

// NewIntegrationRepository stores tokens sealed by cipher.
func NewIntegrationRepository(db *gorm.DB, cipher mappers.TokenCipher, logger logger.Interface) integration.Repository {
	return &IntegrationRepositoryImpl{
		db:     db,
		mapper: mappers.NewIntegrationMapper(cipher),
		logger: logger,
	}
}

func (r *IntegrationRepositoryImpl) Create(ctx context.Context, i *integration.Integration) error {
	model, err := r.mapper.ToModel(i)
	if err != nil {
		r.logger.Errorw("failed to map integration", "user_id", i.UserID(), "error", err)
		return fmt.Errorf("failed to map integration: %w", err)
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create integration", "user_id", model.UserID, "provider", model.Provider, "error", err)
		return fmt.Errorf("failed to create integration: %w", err)
	}
	r.logger.Infow("integration created", "id", model.ID, "provider", model.Provider)
	return nil
}

func (r *IntegrationRepositoryImpl) Update(ctx context.Context, i *integration.Integration) error {
	model, err := r.mapper.ToModel(i)
	if err != nil {
		return fmt.Errorf("failed to map integration: %w", err)
	}
	rows, err := versionedUpdate(db.GetTxFromContext(ctx, r.db), &models.IntegrationModel{}, model.ID, model.Version, map[string]any{
		"status":             model.Status,
		"external_user_id":   model.ExternalUserID,
		"organization_uri":   model.OrganizationURI,
		"access_token":       model.AccessToken,
		"refresh_token":      model.RefreshToken,
		"access_expires_at":  model.AccessExpiresAt,
		"refresh_expires_at": model.RefreshExpiresAt,
		"last_refreshed_at":  model.LastRefreshedAt,
		"last_synced_at":     model.LastSyncedAt,
		"last_error":         model.LastError,
		"updated_at":         model.UpdatedAt,
	})
	if err != nil {
		r.logger.Errorw("failed to update integration", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update integration: %w", err)
	}
	if rows == 0 {
		return conflictError("integration", model.ID)
	}
	return nil
}

func (r *IntegrationRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).Delete(&models.IntegrationModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete integration", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete integration: %w", result.Error)
	}
	r.logger.Infow("integration deleted", "id", id, "rows", result.RowsAffected)
	return nil
}

func (r *IntegrationRepositoryImpl) GetByID(ctx context.Context, id string) (*integration.Integration, error) {
	return r.getOne(ctx, db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *IntegrationRepositoryImpl) GetByUserAndProvider(ctx context.Context, userID string, provider integration.Provider) (*integration.Integration, error) {
	return r.getOne(ctx, db.GetTxFromContext(ctx, r.db).Where("user_id = ? AND provider = ?", userID, provider.String()))
}

func (r *IntegrationRepositoryImpl) GetByExternalUserID(ctx context.Context, provider integration.Provider, externalUserID string) (*integration.Integration, error) {
	return r.getOne(ctx, db.GetTxFromContext(ctx, r.db).Where("provider = ? AND external_user_id = ?", provider.String(), externalUserID))
}

func (r *IntegrationRepositoryImpl) getOne(_ context.Context, query *gorm.DB) (*integration.Integration, error) {
	var model models.IntegrationModel
	if err := query.First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get integration", "error", err)
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *IntegrationRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]*integration.Integration, error) {
	return r.list(db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).Order("provider"))
}

func (r *IntegrationRepositoryImpl) ListActive(ctx context.Context, provider *integration.Provider) ([]*integration.Integration, error) {
	query := db.GetTxFromContext(ctx, r.db).Where("status = ?", integration.StatusActive.String())
	if provider != nil {
		query = query.Where("provider = ?", provider.String())
	}
	return r.list(query.Order("id"))
}

func (r *IntegrationRepositoryImpl) ListExpiringBefore(ctx context.Context, t time.Time) ([]*integration.Integration, error) {
	return r.list(db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND access_expires_at < ?", integration.StatusActive.String(), t.UTC()).
		Order("access_expires_at"))
}

func (r *IntegrationRepositoryImpl) list(query *gorm.DB) ([]*integration.Integration, error) {
	var list []*models.IntegrationModel
	if err := query.Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list integrations", "error", err)
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	return r.mapper.ToEntities(list)
}
