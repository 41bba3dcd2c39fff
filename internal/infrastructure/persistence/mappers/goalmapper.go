package mappers

import (
	"github.com/coachhub/coachhub/internal/domain/goal"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
)

type GoalMapper interface {
	ToEntity(model *models.GoalModel) (*goal.Goal, error)
	ToModel(entity *goal.Goal) *models.GoalModel
}

type GoalMapperImpl struct{}

func NewGoalMapper() GoalMapper {
	return &GoalMapperImpl{}
}

func (m *GoalMapperImpl) ToEntity(model *models.GoalModel) (*goal.Goal, error) {
	if model == nil {
		return nil, nil
	}
	return goal.ReconstructGoal(
		model.ID,
		model.MenteeID,
		model.CoachID,
		model.Title,
		model.Description,
		goal.Status(model.Status),
		model.Progress,
		utcPtr(model.TargetDate),
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *GoalMapperImpl) ToModel(entity *goal.Goal) *models.GoalModel {
	if entity == nil {
		return nil
	}
	return &models.GoalModel{
		ID:          entity.ID(),
		MenteeID:    entity.MenteeID(),
		CoachID:     entity.CoachID(),
		Title:       entity.Title(),
		Description: entity.Description(),
		Status:      string(entity.Status()),
		Progress:    entity.Progress(),
		TargetDate:  utcPtr(entity.TargetDate()),
		Version:     entity.Version(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}
