package mappers

import (
	"github.com/coachhub/coachhub/internal/domain/notification"
	vo "github.com/coachhub/coachhub/internal/domain/notification/valueobjects"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
)

type NotificationMapper interface {
	ToEntity(model *models.NotificationModel) (*notification.Notification, error)
	ToModel(entity *notification.Notification) *models.NotificationModel
}

type NotificationMapperImpl struct{}

func NewNotificationMapper() NotificationMapper {
	return &NotificationMapperImpl{}
}

func (m *NotificationMapperImpl) ToEntity(model *models.NotificationModel) (*notification.Notification, error) {
	if model == nil {
		return nil, nil
	}
	return notification.ReconstructNotification(
		model.ID,
		model.UserID,
		vo.NotificationType(model.Type),
		model.EventType,
		model.Title,
		model.Content,
		model.RelatedID,
		utcPtr(model.ReadAt),
		model.CreatedAt,
	)
}

func (m *NotificationMapperImpl) ToModel(entity *notification.Notification) *models.NotificationModel {
	if entity == nil {
		return nil
	}
	return &models.NotificationModel{
		ID:        entity.ID(),
		UserID:    entity.UserID(),
		Type:      entity.Type().String(),
		EventType: entity.EventType(),
		Title:     entity.Title(),
		Content:   entity.Content(),
		RelatedID: entity.RelatedID(),
		ReadAt:    utcPtr(entity.ReadAt()),
		CreatedAt: entity.CreatedAt(),
	}
}
