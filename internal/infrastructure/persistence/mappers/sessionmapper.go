package mappers

import (
	"github.com/coachhub/coachhub/internal/domain/session"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
)

type SessionMapper interface {
	ToEntity(model *models.SessionModel) (*session.Session, error)
	ToModel(entity *session.Session) *models.SessionModel
	ToEntities(models []*models.SessionModel) ([]*session.Session, error)
}

type SessionMapperImpl struct{}

func NewSessionMapper() SessionMapper {
	return &SessionMapperImpl{}
}

func (m *SessionMapperImpl) ToEntity(model *models.SessionModel) (*session.Session, error) {
	if model == nil {
		return nil, nil
	}
	return session.ReconstructSession(
		model.ID,
		model.BookingID,
		model.CoachID,
		derefString(model.MenteeID),
		model.ScheduledStart.UTC(),
		model.ScheduledEnd.UTC(),
		session.Status(model.Status),
		model.CoachNotes,
		model.Rating,
		model.Feedback,
		utcPtr(model.CompletedAt),
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *SessionMapperImpl) ToModel(entity *session.Session) *models.SessionModel {
	if entity == nil {
		return nil
	}
	return &models.SessionModel{
		ID:             entity.ID(),
		BookingID:      entity.BookingID(),
		CoachID:        entity.CoachID(),
		MenteeID:       stringPtr(entity.MenteeID()),
		ScheduledStart: entity.ScheduledStart().UTC(),
		ScheduledEnd:   entity.ScheduledEnd().UTC(),
		Status:         string(entity.Status()),
		CoachNotes:     entity.CoachNotes(),
		Rating:         entity.Rating(),
		Feedback:       entity.Feedback(),
		CompletedAt:    utcPtr(entity.CompletedAt()),
		Version:        entity.Version(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}
}

func (m *SessionMapperImpl) ToEntities(list []*models.SessionModel) ([]*session.Session, error) {
	out := make([]*session.Session, 0, len(list))
	for _, model := range list {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
