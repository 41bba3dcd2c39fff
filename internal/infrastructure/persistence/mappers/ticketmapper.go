package mappers

import (
	"fmt"

	"github.com/coachhub/coachhub/internal/domain/ticket"
	vo "github.com/coachhub/coachhub/internal/domain/ticket/valueobjects"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
)

type TicketMapper interface {
	ToEntity(model *models.TicketModel) (*ticket.Ticket, error)
	ToModel(entity *ticket.Ticket) *models.TicketModel
	CommentToEntity(model *models.TicketCommentModel) (*ticket.Comment, error)
	CommentToModel(entity *ticket.Comment) *models.TicketCommentModel
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToEntity(model *models.TicketModel) (*ticket.Ticket, error) {
	if model == nil {
		return nil, nil
	}

	category, err := vo.NewCategory(model.Category)
	if err != nil {
		return nil, fmt.Errorf("invalid category: %w", err)
	}
	priority, err := vo.NewPriority(model.Priority)
	if err != nil {
		return nil, fmt.Errorf("invalid priority: %w", err)
	}
	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid status: %w", err)
	}

	return ticket.ReconstructTicket(
		model.ID,
		model.Number,
		model.Title,
		model.Description,
		category,
		priority,
		status,
		model.CreatorID,
		model.AssigneeID,
		model.BookingID,
		utcPtr(model.SLADueTime),
		utcPtr(model.ResponseTime),
		utcPtr(model.ResolvedTime),
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
		utcPtr(model.ClosedAt),
	)
}

func (m *TicketMapperImpl) ToModel(entity *ticket.Ticket) *models.TicketModel {
	if entity == nil {
		return nil
	}
	return &models.TicketModel{
		ID:           entity.ID(),
		Number:       entity.Number(),
		Title:        entity.Title(),
		Description:  entity.Description(),
		Category:     entity.Category().String(),
		Priority:     entity.Priority().String(),
		Status:       entity.Status().String(),
		CreatorID:    entity.CreatorID(),
		AssigneeID:   entity.AssigneeID(),
		BookingID:    entity.BookingID(),
		SLADueTime:   utcPtr(entity.SLADueTime()),
		ResponseTime: utcPtr(entity.ResponseTime()),
		ResolvedTime: utcPtr(entity.ResolvedTime()),
		ClosedAt:     utcPtr(entity.ClosedAt()),
		Version:      entity.Version(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}

func (m *TicketMapperImpl) CommentToEntity(model *models.TicketCommentModel) (*ticket.Comment, error) {
	if model == nil {
		return nil, nil
	}
	return ticket.ReconstructComment(
		model.ID,
		model.TicketID,
		model.UserID,
		model.Content,
		model.IsInternal,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *TicketMapperImpl) CommentToModel(entity *ticket.Comment) *models.TicketCommentModel {
	if entity == nil {
		return nil
	}
	return &models.TicketCommentModel{
		ID:         entity.ID(),
		TicketID:   entity.TicketID(),
		UserID:     entity.UserID(),
		Content:    entity.Content(),
		IsInternal: entity.IsInternal(),
		CreatedAt:  entity.CreatedAt(),
		UpdatedAt:  entity.UpdatedAt(),
	}
}
