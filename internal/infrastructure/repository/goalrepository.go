package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/coachhub/coachhub/internal/domain/goal"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/mappers"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
	"github.com/coachhub/coachhub/internal/shared/db"
	"github.com/coachhub/coachhub/internal/shared/logger"
)

type GoalRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.GoalMapper
	logger logger.Interface
}

func NewGoalRepository(db *gorm.DB, logger logger.Interface) goal.Repository {
	return &GoalRepositoryImpl{
		db:     db,
		mapper: mappers.NewGoalMapper(),
		logger: logger,
	}
}

func (r *GoalRepositoryImpl) Create(ctx context.Context, g *goal.Goal) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(r.mapper.ToModel(g)).Error; err != nil {
		r.logger.Errorw("failed to create goal", "mentee_id", g.MenteeID(), "error", err)
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

func (r *GoalRepositoryImpl) Update(ctx context.Context, g *goal.Goal) error {
	model := r.mapper.ToModel(g)
	rows, err := versionedUpdate(db.GetTxFromContext(ctx, r.db), &models.GoalModel{}, model.ID, model.Version, map[string]any{
		"coach_id":    model.CoachID,
		"title":       model.Title,
		"description": model.Description,
		"status":      model.Status,
		"progress":    model.Progress,
		"target_date": model.TargetDate,
		"updated_at":  model.UpdatedAt,
	})
	if err != nil {
		r.logger.Errorw("failed to update goal", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update goal: %w", err)
	}
	if rows == 0 {
		return conflictError("goal", model.ID)
	}
	return nil
}

func (r *GoalRepositoryImpl) Delete(ctx context.Context, id string) error {
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).Delete(&models.GoalModel{}).Error; err != nil {
		r.logger.Errorw("failed to delete goal", "id", id, "error", err)
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

func (r *GoalRepositoryImpl) GetByID(ctx context.Context, id string) (*goal.Goal, error) {
	var model models.GoalModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get goal", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *GoalRepositoryImpl) List(ctx context.Context, filter goal.ListFilter) ([]*goal.Goal, int64, error) {
	if filter.MenteeID == "" && filter.CoachID == "" {
		return nil, 0, fmt.Errorf("goal listing requires a mentee or coach scope")
	}

	query := db.GetTxFromContext(ctx, r.db).Model(&models.GoalModel{})
	switch {
	case filter.MenteeID != "" && filter.CoachID != "":
		query = query.Where("(mentee_id = ? OR coach_id = ?)", filter.MenteeID, filter.CoachID)
	case filter.MenteeID != "":
		query = query.Where("mentee_id = ?", filter.MenteeID)
	default:
		query = query.Where("coach_id = ?", filter.CoachID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count goals: %w", err)
	}

	var list []*models.GoalModel
	if err := query.Order("created_at DESC").Scopes(db.Paginate(filter.Page, filter.PageSize)).Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list goals", "error", err)
		return nil, 0, fmt.Errorf("failed to list goals: %w", err)
	}

	out := make([]*goal.Goal, 0, len(list))
	for _, m := range list {
		g, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, g)
	}
	return out, total, nil
}
