package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coachhub/coachhub/internal/domain/webhook"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/mappers"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
	"github.com/coachhub/coachhub/internal/shared/db"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type WebhookEventRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.WebhookEventMapper
	logger logger.Interface
}

func NewWebhookEventRepository(db *gorm.DB, logger logger.Interface) webhook.Repository {
	return &WebhookEventRepositoryImpl{
		db:     db,
		mapper: mappers.NewWebhookEventMapper(),
		logger: logger,
	}
}

func (r *WebhookEventRepositoryImpl) Record(ctx context.Context, e *webhook.Event) (*webhook.Event, bool, error) {
	model := r.mapper.ToModel(e)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source"}, {Name: "dedup_key"}},
		DoNothing: true,
	}).Create(model)
	if result.Error != nil {
		r.logger.Errorw("failed to record webhook event", "source", model.Source, "dedup_key", model.DedupKey, "error", result.Error)
		return nil, false, fmt.Errorf("failed to record webhook event: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return e, true, nil
	}

	var existing models.WebhookEventModel
	if err := tx.Where("source = ? AND dedup_key = ?", model.Source, model.DedupKey).First(&existing).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load existing webhook event: %w", err)
	}
	r.logger.Debugw("duplicate webhook delivery", "source", model.Source, "dedup_key", model.DedupKey, "status", existing.Status)
	return r.mapper.ToEntity(&existing), false, nil
}

func (r *WebhookEventRepositoryImpl) Update(ctx context.Context, e *webhook.Event) error {
	model := r.mapper.ToModel(e)
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.WebhookEventModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"status":       model.Status,
			"last_error":   model.LastError,
			"processed_at": model.ProcessedAt,
			"updated_at":   model.UpdatedAt,
		}).Error; err != nil {
		r.logger.Errorw("failed to update webhook event", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update webhook event: %w", err)
	}
	return nil
}
