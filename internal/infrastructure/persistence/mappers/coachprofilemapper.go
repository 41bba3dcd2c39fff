package mappers

import (
	"github.com/coachhub/coachhub/internal/domain/coach"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
)

type CoachProfileMapper interface {
	ToEntity(model *models.CoachProfileModel) (*coach.Profile, error)
	ToModel(entity *coach.Profile) (*models.CoachProfileModel, error)
}

type CoachProfileMapperImpl struct{}

func NewCoachProfileMapper() CoachProfileMapper {
	return &CoachProfileMapperImpl{}
}

func (m *CoachProfileMapperImpl) ToEntity(model *models.CoachProfileModel) (*coach.Profile, error) {
	if model == nil {
		return nil, nil
	}
	var specialties []string
	if err := unmarshalJSON(model.Specialties, &specialties); err != nil {
		return nil, err
	}
	return coach.ReconstructProfile(
		model.UserID,
		model.Headline,
		model.BioMarkdown,
		model.BioHTML,
		specialties,
		model.HourlyRateCents,
		model.Currency,
		model.YearsExperience,
		model.AcceptingClients,
		integration.Provider(model.Provider),
		model.CalcomEventTypeID,
		model.CalendlySchedulingURL,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *CoachProfileMapperImpl) ToModel(entity *coach.Profile) (*models.CoachProfileModel, error) {
	if entity == nil {
		return nil, nil
	}
	specialties, err := marshalJSON(entity.Specialties())
	if err != nil {
		return nil, err
	}
	return &models.CoachProfileModel{
		UserID:                entity.UserID(),
		Headline:              entity.Headline(),
		BioMarkdown:           entity.BioMarkdown(),
		BioHTML:               entity.BioHTML(),
		Specialties:           specialties,
		HourlyRateCents:       entity.HourlyRateCents(),
		Currency:              entity.Currency(),
		YearsExperience:       entity.YearsExperience(),
		AcceptingClients:      entity.AcceptingClients(),
		Provider:              entity.Provider().String(),
		CalcomEventTypeID:     entity.CalcomEventTypeID(),
		CalendlySchedulingURL: entity.CalendlySchedulingURL(),
		CreatedAt:             entity.CreatedAt(),
		UpdatedAt:             entity.UpdatedAt(),
	}, nil
}
