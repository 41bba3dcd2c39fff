package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/domain/schedule"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/mappers"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/db"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type ScheduleRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ScheduleMapper
	logger logger.Interface
}

func NewScheduleRepository(db *gorm.DB, logger logger.Interface) schedule.Repository {
	return &ScheduleRepositoryImpl{
		db:     db,
		mapper: mappers.NewScheduleMapper(),
		logger: logger,
	}
}

func (r *ScheduleRepositoryImpl) Create(ctx context.Context, s *schedule.Schedule) error {
	model, err := r.mapper.ToModel(s)
	if err != nil {
		return fmt.Errorf("failed to map schedule: %w", err)
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create schedule", "coach_id", model.CoachID, "error", err)
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (r *ScheduleRepositoryImpl) Delete(ctx context.Context, id string) error {
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).Delete(&models.ScheduleModel{}).Error; err != nil {
		r.logger.Errorw("failed to delete schedule", "id", id, "error", err)
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

func (r *ScheduleRepositoryImpl) GetByID(ctx context.Context, id string) (*schedule.Schedule, error) {
	var model models.ScheduleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get schedule", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ScheduleRepositoryImpl) ListByCoach(ctx context.Context, coachID string) ([]*schedule.Schedule, error) {
	var list []*models.ScheduleModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("coach_id = ?", coachID).
		Order("is_default DESC, created_at").
		Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list schedules", "coach_id", coachID, "error", err)
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	out := make([]*schedule.Schedule, 0, len(list))
	for _, m := range list {
		s, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *ScheduleRepositoryImpl) SetDefault(ctx context.Context, coachID, scheduleID string) error {
	now := biztime.NowUTC()
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ScheduleModel{}).
			Where("coach_id = ? AND is_default = ?", coachID, true).
			Updates(map[string]any{"is_default": false, "updated_at": now}).Error; err != nil {
			return fmt.Errorf("failed to clear default schedule: %w", err)
		}
		result := tx.Model(&models.ScheduleModel{}).
			Where("id = ? AND coach_id = ?", scheduleID, coachID).
			Updates(map[string]any{"is_default": true, "updated_at": now})
		if result.Error != nil {
			return fmt.Errorf("failed to set default schedule: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("schedule %s not found for coach", scheduleID)
		}
		return nil
	})
}
