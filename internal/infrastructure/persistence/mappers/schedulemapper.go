package mappers

import (
	"github.com/coachhub/coachhub/internal/domain/schedule"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
)

type ScheduleMapper interface {
	ToEntity(model *models.ScheduleModel) (*schedule.Schedule, error)
	ToModel(entity *schedule.Schedule) (*models.ScheduleModel, error)
}

type ScheduleMapperImpl struct{}

func NewScheduleMapper() ScheduleMapper {
	return &ScheduleMapperImpl{}
}

func (m *ScheduleMapperImpl) ToEntity(model *models.ScheduleModel) (*schedule.Schedule, error) {
	if model == nil {
		return nil, nil
	}
	var rules []schedule.AvailabilityRule
	if err := unmarshalJSON(model.Availability, &rules); err != nil {
		return nil, err
	}
	return schedule.ReconstructSchedule(
		model.ID,
		model.CoachID,
		model.CalcomScheduleID,
		model.Name,
		model.Timezone,
		rules,
		model.IsDefault,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *ScheduleMapperImpl) ToModel(entity *schedule.Schedule) (*models.ScheduleModel, error) {
	if entity == nil {
		return nil, nil
	}
	availability, err := marshalJSON(entity.Availability())
	if err != nil {
		return nil, err
	}
	return &models.ScheduleModel{
		ID:               entity.ID(),
		CoachID:          entity.CoachID(),
		CalcomScheduleID: entity.CalcomScheduleID(),
		Name:             entity.Name(),
		Timezone:         entity.Timezone(),
		Availability:     availability,
		IsDefault:        entity.IsDefault(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}, nil
}
