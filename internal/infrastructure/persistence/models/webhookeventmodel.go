package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/coachhub/coachhub/internal/shared/constants"
)

// WebhookEventModel is the inbound delivery ledger used for idempotency.
type WebhookEventModel struct {
	ID          string         `gorm:"primaryKey;size:26"`
	Source      string         `gorm:"not null;size:16;uniqueIndex:idx_webhook_events_dedup,priority:1"`
	DedupKey    string         `gorm:"not null;size:255;uniqueIndex:idx_webhook_events_dedup,priority:2"`
	EventType   string         `gorm:"not null;size:64"`
	Payload     datatypes.JSON `gorm:"not null"`
	Status      string         `gorm:"not null;size:16"`
	LastError   string         `gorm:"not null;default:''"`
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (WebhookEventModel) TableName() string {
	return constants.TableWebhookEvents
}
