package models

import (
	"time"

	"github.com/coachhub/coachhub/internal/shared/constants"
)

// IntegrationModel stores provider credentials. Token columns hold ciphertext.
type IntegrationModel struct {
	ID               string     `gorm:"primaryKey;size:26"`
	UserID           string     `gorm:"not null;size:26;uniqueIndex:idx_integrations_user_provider,priority:1"`
	Provider         string     `gorm:"not null;size:16;uniqueIndex:idx_integrations_user_provider,priority:2;index:idx_integrations_external,priority:1"`
	Status           string     `gorm:"not null;size:16;default:active;index:idx_integrations_expiry,priority:1"`
	ExternalUserID   string     `gorm:"not null;size:255;default:'';index:idx_integrations_external,priority:2"`
	OrganizationURI  string     `gorm:"column:organization_uri;not null;default:''"`
	AccessToken      string     `gorm:"not null"`
	RefreshToken     string     `gorm:"not null;default:''"`
	AccessExpiresAt  *time.Time `gorm:"index:idx_integrations_expiry,priority:2"`
	RefreshExpiresAt *time.Time
	LastRefreshedAt  *time.Time
	LastSyncedAt     *time.Time
	LastError        string `gorm:"not null;default:''"`
	Version          int    `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (IntegrationModel) TableName() string {
	return constants.TableIntegrations
}
