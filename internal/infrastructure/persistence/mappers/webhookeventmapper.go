package mappers

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/coachhub/coachhub/internal/domain/webhook"
	"github.com/coachhub/coachhub/internal/infrastructure/persistence/models"
)

type WebhookEventMapper interface {
	ToEntity(model *models.WebhookEventModel) *webhook.Event
	ToModel(entity *webhook.Event) *models.WebhookEventModel
}

type WebhookEventMapperImpl struct{}

func NewWebhookEventMapper() WebhookEventMapper {
	return &WebhookEventMapperImpl{}
}

func (m *WebhookEventMapperImpl) ToEntity(model *models.WebhookEventModel) *webhook.Event {
	if model == nil {
		return nil
	}
	return webhook.ReconstructEvent(
		model.ID,
		webhook.Source(model.Source),
		model.DedupKey,
		model.EventType,
		[]byte(model.Payload),
		webhook.Status(model.Status),
		model.LastError,
		utcPtr(model.ProcessedAt),
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// ToModel stores non-JSON payloads as a JSON string so the jsonb column
// always accepts the row.
func (m *WebhookEventMapperImpl) ToModel(entity *webhook.Event) *models.WebhookEventModel {
	if entity == nil {
		return nil
	}
	payload := entity.Payload()
	if !json.Valid(payload) {
		payload, _ = json.Marshal(string(payload))
	}
	return &models.WebhookEventModel{
		ID:          entity.ID(),
		Source:      string(entity.Source()),
		DedupKey:    entity.DedupKey(),
		EventType:   entity.EventType(),
		Payload:     datatypes.JSON(payload),
		Status:      string(entity.Status()),
		LastError:   entity.LastError(),
		ProcessedAt: utcPtr(entity.ProcessedAt()),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}
