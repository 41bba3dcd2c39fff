package mappers

import (
	"github.com/coachhub/coachhub/internal/domain/booking"
	"github.com/coachhub/coachhub/internal/domain/integration"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
)

type BookingMapper interface {
	ToEntity(model *models.BookingModel) (*booking.Booking, error)
	ToModel(entity *booking.Booking) (*models.BookingModel, error)
	ToEntities(models []*models.BookingModel) ([]*booking.Booking, error)
	ProposalToEntity(model *models.BookingProposalModel) (*booking.Proposal, error)
	ProposalToModel(entity *booking.Proposal) *models.BookingProposalModel
}

type BookingMapperImpl struct{}

func NewBookingMapper() BookingMapper {
	return &BookingMapperImpl{}
}

func (m *BookingMapperImpl) ToEntity(model *models.BookingModel) (*booking.Booking, error) {
	if model == nil {
		return nil, nil
	}

	var metadata map[string]any
	if err := unmarshalJSON(model.Metadata, &metadata); err != nil {
		return nil, err
	}

	return booking.ReconstructBooking(
		model.ID,
		booking.NewBookingParams{
			UID:                model.UID,
			Provider:           integration.Provider(model.Provider),
			ProviderBookingID:  model.ProviderBookingID,
			CoachID:            model.CoachID,
			MenteeID:           derefString(model.MenteeID),
			AttendeeEmail:      model.AttendeeEmail,
			AttendeeName:       model.AttendeeName,
			EventTypeID:        model.EventTypeID,
			Title:              model.Title,
			StartTime:          model.StartTime.UTC(),
			EndTime:            model.EndTime.UTC(),
			Status:             booking.Status(model.Status),
			MeetingURL:         model.MeetingURL,
			RescheduledFromUID: model.RescheduledFromUID,
			Metadata:           metadata,
		},
		model.CancellationReason,
		derefString(model.CancelledBy),
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *BookingMapperImpl) ToModel(entity *booking.Booking) (*models.BookingModel, error) {
	if entity == nil {
		return nil, nil
	}

	metadata, err := marshalJSON(entity.Metadata())
	if err != nil {
		return nil, err
	}

	return &models.BookingModel{
		ID:                 entity.ID(),
		UID:                entity.UID(),
		Provider:           entity.Provider().String(),
		ProviderBookingID:  entity.ProviderBookingID(),
		CoachID:            entity.CoachID(),
		MenteeID:           stringPtr(entity.MenteeID()),
		AttendeeEmail:      entity.AttendeeEmail(),
		AttendeeName:       entity.AttendeeName(),
		EventTypeID:        entity.EventTypeID(),
		Title:              entity.Title(),
		StartTime:          entity.StartTime().UTC(),
		EndTime:            entity.EndTime().UTC(),
		Status:             entity.Status().String(),
		MeetingURL:         entity.MeetingURL(),
		CancellationReason: entity.CancellationReason(),
		CancelledBy:        stringPtr(entity.CancelledBy()),
		RescheduledFromUID: entity.RescheduledFromUID(),
		Metadata:           metadata,
		Version:            entity.Version(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}, nil
}

func (m *BookingMapperImpl) ToEntities(list []*models.BookingModel) ([]*booking.Booking, error) {
	out := make([]*booking.Booking, 0, len(list))
	for _, model := range list {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func (m *BookingMapperImpl) ProposalToEntity(model *models.BookingProposalModel) (*booking.Proposal, error) {
	if model == nil {
		return nil, nil
	}
	return booking.ReconstructProposal(
		model.ID,
		model.BookingID,
		model.ProposedBy,
		booking.ProposalKind(model.Kind),
		utcPtr(model.ProposedStart),
		utcPtr(model.ProposedEnd),
		model.Reason,
		booking.ProposalStatus(model.Status),
		model.ExpiresAt.UTC(),
		derefString(model.RespondedBy),
		utcPtr(model.RespondedAt),
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *BookingMapperImpl) ProposalToModel(entity *booking.Proposal) *models.BookingProposalModel {
	if entity == nil {
		return nil
	}
	return &models.BookingProposalModel{
		ID:            entity.ID(),
		BookingID:     entity.BookingID(),
		ProposedBy:    entity.ProposedBy(),
		Kind:          string(entity.Kind()),
		ProposedStart: utcPtr(entity.ProposedStart()),
		ProposedEnd:   utcPtr(entity.ProposedEnd()),
		Reason:        entity.Reason(),
		Status:        string(entity.Status()),
		ExpiresAt:     entity.ExpiresAt().UTC(),
		RespondedBy:   stringPtr(entity.RespondedBy()),
		RespondedAt:   utcPtr(entity.RespondedAt()),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}
}
